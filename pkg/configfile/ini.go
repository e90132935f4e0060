package configfile

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
	"gopkg.in/ini.v1"
)

// iniOptions keep ';' and '#' inside values and disable line
// continuations, since option text carries its own escaping.
var iniOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
	KeyValueDelimiters:  "=",
}

// ReadINI applies every "key = value" line of r to store in file order, so
// a shortcut followed by one of its targets behaves as written. Keys may be
// aliases. Named sections are ignored.
func ReadINI(r io.Reader, store config.Store, opts ...Option) error {
	o := applyOptions(opts)

	file, err := ini.LoadSources(iniOptions, io.NopCloser(r))
	if err != nil {
		return fmt.Errorf("failed to parse ini: %w", err)
	}

	acc := o.accessor(store)
	for _, key := range file.Section(ini.DefaultSection).Keys() {
		if err := acc.SetString(key.Name(), key.Value()); err != nil {
			if o.skip(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// WriteINI writes every value of store as "key = value", sorted by key,
// after a generated-by comment.
func WriteINI(w io.Writer, store config.Store) error {
	file := ini.Empty(iniOptions)
	sec := file.Section(ini.DefaultSection)

	for _, key := range store.Keys() {
		v, err := store.Lookup(key)
		if err != nil {
			return err
		}
		if _, err := sec.NewKey(key, quoteINIValue(v.Serialize())); err != nil {
			return fmt.Errorf("failed to add key %s: %w", key, err)
		}
	}

	if _, err := fmt.Fprintf(w, "# generated by slicecfg on %s\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	_, err := file.WriteTo(w)
	return err
}

// quoteINIValue wraps text in triple quotes when the reader would otherwise
// trim surrounding space or strip surrounding quotes. The reader returns
// triple-quoted text verbatim. Text holding a backtick is left alone, the
// writer triple-quotes it already.
func quoteINIValue(text string) string {
	if text == "" || strings.ContainsRune(text, '`') {
		return text
	}
	if strings.TrimSpace(text) != text ||
		strings.ContainsRune(`"'`, rune(text[0])) ||
		strings.ContainsRune(`"'`, rune(text[len(text)-1])) {
		return `"""` + text + `"""`
	}
	return text
}
