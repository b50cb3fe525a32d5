package simulator

import (
	"strconv"
)

// Arg is one command-line setting. Single-letter keys become "-k", longer
// ones "--key". A Flag has no value.
type Arg struct {
	Key   string
	Value string
	Flag  bool
}

// String builds a valued argument.
func String(key, value string) Arg { return Arg{Key: key, Value: value} }

// Float builds a numeric argument in shortest form ("1e-08").
func Float(key string, v float64) Arg {
	return Arg{Key: key, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

// Flag builds a valueless argument.
func Flag(key string) Arg { return Arg{Key: key, Flag: true} }

// Args renders settings in order.
func Args(settings []Arg) []string {
	out := make([]string, 0, 2*len(settings))
	for _, a := range settings {
		if len(a.Key) > 1 {
			out = append(out, "--"+a.Key)
		} else {
			out = append(out, "-"+a.Key)
		}
		if !a.Flag {
			out = append(out, a.Value)
		}
	}
	return out
}

// Merge overlays overrides on base: a key already in base is replaced in
// place, a new key is appended.
func Merge(base, overrides []Arg) []Arg {
	out := append([]Arg(nil), base...)
	for _, o := range overrides {
		replaced := false
		for i := range out {
			if out[i].Key == o.Key {
				out[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, o)
		}
	}
	return out
}
