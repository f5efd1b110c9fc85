package canon

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Violation locates one structural defect in a candidate.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Verdict is the validator's result. Violations are reported in
// contract-declaration field order, so validating the same candidate
// twice yields identical verdicts.
type Verdict struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations,omitempty"`
}

// Validate checks candidate against the named shape's contract.
// The candidate may be a canonical struct, a raw mapping, or anything
// else (which is itself the first violation). Validation is advisory
// and pure: it never panics on malformed input and has no side
// effects; callers decide whether to log. The only error is
// types.ErrUnknownShape for a Shape outside the closed set.
func Validate(shape types.Shape, candidate any) (Verdict, error) {
	contract, err := ContractFor(shape)
	if err != nil {
		return Verdict{}, err
	}
	var violations []Violation
	validateShape(contract, candidate, "", &violations)
	return Verdict{OK: len(violations) == 0, Violations: violations}, nil
}

func validateShape(contract Contract, candidate any, path string, out *[]Violation) {
	m, ok := candidateMap(candidate)
	if !ok {
		*out = append(*out, Violation{Path: joinPath(path, ""), Reason: "not a mapping"})
		return
	}

	for _, f := range contract.Fields {
		fpath := joinPath(path, f.Name)
		v, present := fieldValue(m, f)
		if !present {
			if f.Required {
				*out = append(*out, Violation{Path: fpath, Reason: "missing"})
			}
			continue
		}
		if v == nil {
			if f.Required {
				*out = append(*out, Violation{Path: fpath, Reason: "null"})
			}
			continue
		}
		validateField(f, v, fpath, out)
	}
}

func validateField(f Field, v any, path string, out *[]Violation) {
	switch f.Kind {
	case KindID:
		id, ok := intValue(v)
		switch {
		case !ok:
			*out = append(*out, Violation{Path: path, Reason: "not an integer"})
		case id <= 0:
			*out = append(*out, Violation{Path: path, Reason: "not positive"})
		}
	case KindString:
		s, ok := v.(string)
		switch {
		case !ok:
			*out = append(*out, Violation{Path: path, Reason: "not a string"})
		case s == "":
			*out = append(*out, Violation{Path: path, Reason: "empty"})
		}
	case KindText:
		if _, ok := v.(string); !ok {
			*out = append(*out, Violation{Path: path, Reason: "not a string"})
		}
	case KindTime:
		if !isTimestamp(v) {
			*out = append(*out, Violation{Path: path, Reason: "not a timestamp"})
		}
	case KindMap:
		if _, ok := asMap(v); !ok {
			*out = append(*out, Violation{Path: path, Reason: "not a mapping"})
		}
	case KindComposite:
		nested := contracts[f.Elem]
		if !f.Repeated {
			validateShape(nested, v, path, out)
			return
		}
		seq, ok := asSeq(v)
		if !ok {
			*out = append(*out, Violation{Path: path, Reason: "not a sequence"})
			return
		}
		for i, el := range seq {
			validateShape(nested, el, elemPath(path, i), out)
		}
	}
}

// intValue extracts an integer from the numeric encodings raw data
// arrives in. Unlike coerceID it does not accept strings: the
// validator reports type mismatches, it does not repair them.
func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// isTimestamp reports whether v is a timestamp in any accepted
// encoding.
func isTimestamp(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return true
	case string:
		for _, layout := range timeLayouts {
			if _, err := time.Parse(layout, t); err == nil {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func joinPath(path, name string) string {
	switch {
	case path == "":
		return name
	case name == "":
		return path
	default:
		return path + "." + name
	}
}

func elemPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
