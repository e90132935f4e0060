package config

import (
	"errors"
	"slices"
	"testing"
)

type layerGroup struct {
	LayerHeight      OptionValue `config:"layer_height"`
	FirstLayerHeight OptionValue `config:"first_layer_height"`
	Perimeters       OptionValue `config:"perimeters"`
}

type speedGroup struct {
	PerimeterSpeed         OptionValue `config:"perimeter_speed"`
	ExternalPerimeterSpeed OptionValue `config:"external_perimeter_speed"`
	TopSolidLayers         OptionValue `config:"top_solid_layers"`
	BottomSolidLayers      OptionValue `config:"bottom_solid_layers"`
}

type overlappingGroup struct {
	Perimeters OptionValue `config:"perimeters"`
	Threads    OptionValue `config:"threads"`
}

type LayerGroup = layerGroup

type embeddedGroup struct {
	LayerGroup
	Notes OptionValue `config:"notes"`
}

func TestShape(t *testing.T) {
	s := newTestSchema(t)
	sh, err := NewShape[layerGroup](s)
	if err != nil {
		t.Fatalf("NewShape failed: %v", err)
	}

	want := []string{"first_layer_height", "layer_height", "perimeters"}
	if got := sh.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	g := sh.New()
	if g.LayerHeight.Float() != 0.4 || g.Perimeters.Int() != 3 {
		t.Errorf("Init did not seed defaults: %v %v", g.LayerHeight.Float(), g.Perimeters.Int())
	}

	v, err := sh.Option(g, "perimeter_offsets")
	if err != nil {
		t.Fatalf("alias lookup failed: %v", err)
	}
	if err := v.Set(IntValue(5)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if g.Perimeters.Int() != 5 {
		t.Errorf("write through alias not visible on field")
	}

	if _, err := sh.Option(g, "perimeter_speed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for key outside group, got %v", err)
	}
	if _, err := sh.Option(g, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestShapeCopy(t *testing.T) {
	s := newTestSchema(t)
	sh := MustShape[layerGroup](s)

	src := sh.New()
	if err := src.FirstLayerHeight.Set(LiteralValue(0.3)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	dst := sh.Clone(src)
	if dst.FirstLayerHeight.Float() != 0.3 || dst.FirstLayerHeight.Percent() {
		t.Errorf("Copy lost value: %v", dst.FirstLayerHeight.Get())
	}
	if err := dst.LayerHeight.Set(FloatValue(0.1)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if src.LayerHeight.Float() != 0.4 {
		t.Errorf("copy shares storage with source")
	}
}

func TestShapeEmbedded(t *testing.T) {
	s := newTestSchema(t)
	sh, err := NewShape[embeddedGroup](s)
	if err != nil {
		t.Fatalf("NewShape failed: %v", err)
	}
	if !sh.Has("layer_height") || !sh.Has("notes") {
		t.Errorf("expected embedded and direct fields, got %v", sh.Keys())
	}
	g := sh.New()
	if g.LayerHeight.Float() != 0.4 {
		t.Errorf("embedded field not initialized")
	}
}

func TestShapeRejectsBadStructs(t *testing.T) {
	s := newTestSchema(t)

	type unknownKey struct {
		X OptionValue `config:"no_such_option"`
	}
	type wrongType struct {
		X float64 `config:"layer_height"`
	}
	type twice struct {
		A OptionValue `config:"layer_height"`
		B OptionValue `config:"layer_height"`
	}

	if _, err := NewShape[unknownKey](s); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := NewShape[wrongType](s); err == nil {
		t.Error("expected non-OptionValue field to be rejected")
	}
	if _, err := NewShape[twice](s); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if _, err := NewShape[int](s); err == nil {
		t.Error("expected non-struct to be rejected")
	}
}

func TestDynamic(t *testing.T) {
	s := newTestSchema(t)
	d := NewDynamic(s)

	if _, err := d.Option("layer_height", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound without create, got %v", err)
	}
	v, err := d.Option("layer_height", true)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if v.Float() != 0.4 {
		t.Errorf("created value should hold default, got %v", v.Float())
	}
	if _, err := d.Option("bogus", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown key, got %v", err)
	}

	if _, err := d.Option("perimeter_feed_rate", true); err != nil {
		t.Fatalf("alias create failed: %v", err)
	}
	if !d.Has("perimeter_speed") || !d.Has("perimeter_feed_rate") {
		t.Errorf("alias should create canonical key")
	}

	if got := d.Keys(); !slices.Equal(got, []string{"layer_height", "perimeter_speed"}) {
		t.Errorf("Keys() = %v", got)
	}

	c := d.Clone()
	cv, _ := c.Option("layer_height", false)
	if err := cv.Set(FloatValue(0.2)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v.Float() != 0.4 {
		t.Errorf("clone shares storage")
	}

	if !d.Delete("perimeter_feed_rate") || d.Len() != 1 {
		t.Errorf("Delete through alias failed, len %d", d.Len())
	}
	if d.Delete("perimeter_speed") {
		t.Error("second delete should report absence")
	}
}

func TestComposite(t *testing.T) {
	s := newTestSchema(t)
	layers := MustShape[layerGroup](s)
	over := MustShape[overlappingGroup](s)

	lg := layers.New()
	og := over.New()
	if err := og.Perimeters.Set(IntValue(7)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	c := NewComposite(s, layers.Bind(lg), over.Bind(og))

	v, err := c.Option("perimeters")
	if err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if v.Int() != 3 {
		t.Errorf("first member should win, got %d", v.Int())
	}
	if v, err := c.Option("threads"); err != nil || v.Int() != 2 {
		t.Errorf("expected threads from second member, got %v, %v", v, err)
	}
	if _, err := c.Option("perimeter_speed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Option("perimeter_offsets"); err != nil {
		t.Errorf("alias lookup failed: %v", err)
	}

	overlaps := c.Overlaps()
	if len(overlaps) != 1 || overlaps[0].Key != "perimeters" || !slices.Equal(overlaps[0].Members, []int{0, 1}) {
		t.Errorf("Overlaps() = %+v", overlaps)
	}

	if _, err := NewStrictComposite(s, layers.Bind(lg), over.Bind(og)); !errors.Is(err, ErrShadowedKey) {
		t.Errorf("expected ErrShadowedKey, got %v", err)
	}

	want := []string{"first_layer_height", "layer_height", "perimeters", "threads"}
	if got := c.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCompositeEnsureCreatesInDynamicMember(t *testing.T) {
	s := newTestSchema(t)
	sh := MustShape[layerGroup](s)
	extra := NewDynamic(s)

	c, err := NewStrictComposite(s, sh.Bind(sh.New()), extra)
	if err != nil {
		t.Fatalf("NewStrictComposite failed: %v", err)
	}
	v, err := c.Ensure("notes")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := v.Set(StringValue("hello")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !extra.Has("notes") {
		t.Error("expected dynamic member to hold created key")
	}
}

type recordingObserver struct {
	keys []string
	errs []error
}

func (r *recordingObserver) ObserveWrite(key string, err error) {
	r.keys = append(r.keys, key)
	r.errs = append(r.errs, err)
}

func TestAccessorShortcut(t *testing.T) {
	s := newTestSchema(t)
	d := NewDynamic(s)
	obs := &recordingObserver{}
	acc := NewAccessor(d, WithObserver(obs))

	if err := acc.SetString("solid_layers", "5"); err != nil {
		t.Fatalf("shortcut write failed: %v", err)
	}
	for _, k := range []string{"top_solid_layers", "bottom_solid_layers"} {
		v, err := d.Option(k, false)
		if err != nil {
			t.Fatalf("%s not created: %v", k, err)
		}
		if v.Int() != 5 {
			t.Errorf("%s = %d, want 5", k, v.Int())
		}
	}
	if d.Has("solid_layers") {
		t.Error("shortcut key itself should not be stored")
	}
	if len(obs.keys) != 1 || obs.keys[0] != "solid_layers" || obs.errs[0] != nil {
		t.Errorf("observer saw %v %v", obs.keys, obs.errs)
	}
}

func TestAccessorShortcutAllOrNothing(t *testing.T) {
	s := newTestSchema(t)
	sh := MustShape[speedGroup](s)
	g := sh.New()
	acc := NewAccessor(sh.Bind(g))

	if err := acc.Set("solid_layers", IntValue(-1)); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if g.TopSolidLayers.Int() != 3 || g.BottomSolidLayers.Int() != 3 {
		t.Errorf("rejected shortcut write changed targets")
	}

	d := NewDynamic(s)
	dacc := NewAccessor(d)
	if err := dacc.SetString("solid_layers", "x"); err == nil {
		t.Fatal("expected parse failure")
	}
	if d.Len() != 0 {
		t.Errorf("rejected write created keys %v", d.Keys())
	}
}

func TestAccessorShortcutMissingTarget(t *testing.T) {
	s := newTestSchema(t)
	sh := MustShape[layerGroup](s)
	acc := NewAccessor(sh.Bind(sh.New()))

	if err := acc.Set("solid_layers", IntValue(2)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAccessorAbsValue(t *testing.T) {
	s := newTestSchema(t)
	d := NewDynamic(s)
	acc := NewAccessor(d)

	for _, kv := range [][2]string{
		{"layer_height", "0.2"},
		{"first_layer_height", "150%"},
		{"perimeter_speed", "40"},
		{"external_perimeter_speed", "50%"},
	} {
		if err := acc.SetString(kv[0], kv[1]); err != nil {
			t.Fatalf("SetString(%s) failed: %v", kv[0], err)
		}
	}

	tests := []struct {
		key  string
		want float64
	}{
		{"layer_height", 0.2},
		{"first_layer_height", 0.3},
		{"external_perimeter_speed", 20},
	}
	for _, tt := range tests {
		got, err := acc.AbsValue(tt.key)
		if err != nil {
			t.Errorf("AbsValue(%s) failed: %v", tt.key, err)
			continue
		}
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("AbsValue(%s) = %v, want %v", tt.key, got, tt.want)
		}
	}

	if got, err := acc.ResolvePercentage("external_perimeter_speed", 100); err != nil || got != 50 {
		t.Errorf("ResolvePercentage = %v, %v", got, err)
	}

	if err := acc.SetString("perimeter_speed", "-5"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if canon, err := acc.CanonicalKey("perimeter_feed_rate"); err != nil || canon != "perimeter_speed" {
		t.Errorf("CanonicalKey = %q, %v", canon, err)
	}
}

func TestAccessorRangePolicyInherited(t *testing.T) {
	s := newTestSchema(t)
	d := NewDynamic(s, WithRangePolicy(RangeClamp))
	acc := NewAccessor(d)

	if err := acc.SetString("threads", "99"); err != nil {
		t.Fatalf("clamped write failed: %v", err)
	}
	if err := acc.SetNative("perimeters", 50); err != nil {
		t.Fatalf("clamped native write failed: %v", err)
	}
	if v, _ := d.Option("threads", false); v.Int() != 16 {
		t.Errorf("threads = %d, want 16", v.Int())
	}
	if v, _ := d.Option("perimeters", false); v.Int() != 10 {
		t.Errorf("perimeters = %d, want 10", v.Int())
	}
}

func TestPolicyFor(t *testing.T) {
	s := newTestSchema(t)
	sh := MustShape[layerGroup](s)
	group := sh.Bind(sh.New())
	clamped := NewDynamic(s, WithRangePolicy(RangeClamp))
	full := NewComposite(s, group, clamped)

	tests := []struct {
		name  string
		store Store
		key   string
		want  RangePolicy
	}{
		{name: "group field", store: group, key: "perimeters", want: RangeReject},
		{name: "outside group", store: group, key: "threads", want: RangeReject},
		{name: "dynamic creates", store: clamped, key: "threads", want: RangeClamp},
		{name: "dynamic alias", store: clamped, key: "perimeter_feed_rate", want: RangeClamp},
		{name: "composite held", store: full, key: "perimeters", want: RangeReject},
		{name: "composite creates", store: full, key: "threads", want: RangeClamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolicyFor(tt.store, tt.key); got != tt.want {
				t.Errorf("PolicyFor(%s) = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}

func TestStagingFollowsDestinationPolicy(t *testing.T) {
	s := newTestSchema(t)
	dst := NewDynamic(s, WithRangePolicy(RangeClamp))

	staged := NewDynamic(s, WithPolicyOf(dst))
	acc := NewAccessor(staged)
	if err := acc.SetString("threads", "64"); err != nil {
		t.Fatalf("staged write failed: %v", err)
	}
	if err := Apply(dst, staged, false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	v, err := dst.Lookup("threads")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if v.Int() != 16 || v.Policy() != RangeClamp {
		t.Errorf("threads = %d (%s), want 16 (clamp)", v.Int(), v.Policy())
	}

	// A reject destination still rejects through the staging config.
	strict := NewDynamic(s, WithPolicyOf(NewDynamic(s)))
	if err := NewAccessor(strict).SetString("threads", "64"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestApplyDiffExport(t *testing.T) {
	s := newTestSchema(t)
	src := NewDynamic(s)
	acc := NewAccessor(src)
	if err := acc.SetString("layer_height", "0.3"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := acc.SetString("notes", "draft"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	sh := MustShape[layerGroup](s)
	g := sh.New()
	if err := Apply(sh.Bind(g), src, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for key outside group, got %v", err)
	}
	if err := Apply(sh.Bind(g), src, true); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if g.LayerHeight.Float() != 0.3 {
		t.Errorf("Apply did not copy layer_height")
	}

	dst := NewDynamic(s)
	if err := Apply(dst, src, false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if diff := Diff(src, dst); len(diff) != 0 {
		t.Errorf("expected no diff, got %v", diff)
	}
	if err := NewAccessor(dst).SetString("notes", "final"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if _, err := dst.Option("perimeters", true); err != nil {
		t.Fatalf("Option failed: %v", err)
	}
	if diff := Diff(src, dst); !slices.Equal(diff, []string{"notes", "perimeters"}) {
		t.Errorf("Diff() = %v", diff)
	}

	exp := Export(src)
	if exp["layer_height"] != 0.3 || exp["notes"] != "draft" || len(exp) != 2 {
		t.Errorf("Export() = %v", exp)
	}
}
