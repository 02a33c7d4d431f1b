package storage

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windowsReservedNames cannot be used as file names on Windows regardless of extension.
var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {},
}

// SecureFilename turns a client supplied filename into a flat ASCII name with
// no path segments. "../../etc/passwd" becomes "etc_passwd". It returns
// ErrInvalidFilename when nothing usable is left.
func SecureFilename(name string) (string, error) {
	ascii, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))),
		name,
	)
	if err != nil {
		return "", ErrInvalidFilename
	}

	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if ascii == "" {
		return "", ErrInvalidFilename
	}

	stem := strings.ToUpper(strings.SplitN(ascii, ".", 2)[0])
	if _, reserved := windowsReservedNames[stem]; reserved {
		ascii = "_" + ascii
	}

	return ascii, nil
}

// validName reports whether name is a single flat path element.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
