package universe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Suffix marks Jakarta listings in provider symbols
const Suffix = ".JK"

// ErrUnknownCategory is returned for a category outside the catalogue
var ErrUnknownCategory = errors.New("unknown universe category")

// Category names an index whose constituents form a universe
type Category string

const (
	LQ45           Category = "LQ45"
	IDX80          Category = "IDX80"
	MSCIBigCap     Category = "MSCI_BIG_CAP"
	MSCIMidCap     Category = "MSCI_MID_CAP"
	MSCISmallCap   Category = "MSCI_SMALL_CAP"
	Kompas100Proxy Category = "KOMPAS100_PROXY"

	// Expanded is the union of every category
	Expanded Category = "EXPANDED"
)

var catalogue = map[Category][]string{
	LQ45:           lq45Codes,
	IDX80:          idx80Codes,
	MSCIBigCap:     msciBigCapCodes,
	MSCIMidCap:     msciMidCapCodes,
	MSCISmallCap:   msciSmallCapCodes,
	Kompas100Proxy: kompas100ProxyCodes,
}

// codePattern matches a bare IDX ticker code
var codePattern = regexp.MustCompile(`^[A-Z]{4}$`)

// Categories returns the catalogue keys in a stable order
func Categories() []Category {
	out := make([]Category, 0, len(catalogue))
	for c := range catalogue {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tickers returns the .JK symbols of one category
func Tickers(c Category) ([]string, error) {
	if c == Expanded {
		return ExpandedUniverse(), nil
	}
	codes, ok := catalogue[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = code + Suffix
	}
	return out, nil
}

// ExpandedUniverse is the sorted, de-duplicated union of every category
func ExpandedUniverse() []string {
	var all []string
	for _, codes := range catalogue {
		for _, code := range codes {
			all = append(all, code+Suffix)
		}
	}
	return Dedupe(all)
}

// Resolve unions the named categories (case-insensitive). No names
// resolves to the expanded universe.
func Resolve(names ...string) ([]string, error) {
	if len(names) == 0 {
		return ExpandedUniverse(), nil
	}

	var all []string
	for _, name := range names {
		tickers, err := Tickers(Category(strings.ToUpper(strings.TrimSpace(name))))
		if err != nil {
			return nil, err
		}
		all = append(all, tickers...)
	}
	return Dedupe(all), nil
}

// Normalize upper-cases a symbol and appends .JK to bare exchange codes.
// Index symbols such as ^JKSE pass through unchanged.
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || strings.HasPrefix(s, "^") || strings.Contains(s, ".") {
		return s
	}
	return s + Suffix
}

// Dedupe normalizes, drops blanks and duplicates, and sorts
func Dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		n := Normalize(sym)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// LoadFile reads a universe file
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses one ticker per line; blank lines and # comments are skipped,
// commas also separate tickers
func Read(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Split(line, ",") {
			if f := strings.TrimSpace(field); f != "" {
				out = append(out, f)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	return Dedupe(out), nil
}
