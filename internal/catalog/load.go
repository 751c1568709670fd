package catalog

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed battery/*.cue
var batteryFS embed.FS

// LoadError reports a catalogue that could not be loaded or compiled.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load error codes.
const (
	ErrCodeNotFound    = "E_CATALOG_NOT_FOUND"
	ErrCodeNoFiles     = "E_CATALOG_NO_FILES"
	ErrCodeBuildFailed = "E_CATALOG_BUILD_FAILED"
	ErrCodeBadQuery    = "E_CATALOG_BAD_QUERY"
)

// Default returns the battery embedded in the binary: the 7 analytics
// queries plus the 42 validation competency questions.
func Default() (*Catalog, error) {
	entries, err := batteryFS.ReadDir("battery")
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("embedded battery: %v", err)}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	ctx := cuecontext.New()
	var value cue.Value
	for i, name := range names {
		data, err := batteryFS.ReadFile("battery/" + name)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("embedded battery %s: %v", name, err)}
		}
		v := ctx.CompileBytes(data, cue.Filename(name))
		if err := v.Err(); err != nil {
			return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("compiling %s: %v", name, err)}
		}
		if i == 0 {
			value = v
		} else {
			value = value.Unify(v)
		}
	}
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("unifying battery: %v", err)}
	}
	return extract(value)
}

// LoadDir loads a catalogue from a directory of CUE files, for running a
// custom battery in place of the embedded one.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalogue directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("accessing catalogue directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil || len(matches) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return extract(value)
}

// extract pulls the query map out of a compiled CUE value.
func extract(value cue.Value) (*Catalog, error) {
	queriesVal := value.LookupPath(cue.ParsePath("query"))
	if !queriesVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "catalogue defines no queries"}
	}

	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("iterating queries: %v", err)}
	}

	var specs []QuerySpec
	for iter.Next() {
		spec, err := compileQuery(iter.Label(), iter.Value())
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadQuery, Message: fmt.Sprintf("query.%s: %v", iter.Label(), err)}
		}
		specs = append(specs, *spec)
	}

	cat, err := New(specs)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadQuery, Message: err.Error()}
	}
	return cat, nil
}

// compileQuery converts one CUE query struct into a QuerySpec.
func compileQuery(id string, v cue.Value) (*QuerySpec, error) {
	spec := &QuerySpec{ID: id}

	str := func(field string) (string, error) {
		fv := v.LookupPath(cue.ParsePath(field))
		if !fv.Exists() {
			return "", fmt.Errorf("missing field %q", field)
		}
		s, err := fv.String()
		if err != nil {
			return "", fmt.Errorf("field %q: %w", field, err)
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("field %q is empty", field)
		}
		return s, nil
	}

	var err error
	if spec.Category, err = str("category"); err != nil {
		return nil, err
	}
	if spec.Label, err = str("label"); err != nil {
		return nil, err
	}
	if spec.Text, err = str("text"); err != nil {
		return nil, err
	}

	seqVal := v.LookupPath(cue.ParsePath("seq"))
	seq, err := seqVal.Int64()
	if err != nil {
		return nil, fmt.Errorf("field \"seq\": %w", err)
	}
	spec.Seq = int(seq)

	limitVal := v.LookupPath(cue.ParsePath("rowLimit"))
	limit, err := limitVal.Int64()
	if err != nil {
		return nil, fmt.Errorf("field \"rowLimit\": %w", err)
	}
	if limit < 0 {
		return nil, fmt.Errorf("field \"rowLimit\": negative limit %d", limit)
	}
	spec.RowLimit = int(limit)

	sumVal := v.LookupPath(cue.ParsePath("summary"))
	if sumVal.Exists() {
		sum, err := compileSummary(sumVal)
		if err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		spec.Summary = sum
	}

	return spec, nil
}

// compileSummary converts the optional summary struct.
func compileSummary(v cue.Value) (*Summary, error) {
	sum := &Summary{}

	field, err := v.LookupPath(cue.ParsePath("field")).String()
	if err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	sum.Field = field

	label, err := v.LookupPath(cue.ParsePath("label")).String()
	if err != nil {
		return nil, fmt.Errorf("label: %w", err)
	}
	sum.Label = label

	reducer, err := v.LookupPath(cue.ParsePath("reducer")).String()
	if err != nil {
		return nil, fmt.Errorf("reducer: %w", err)
	}
	switch Reducer(reducer) {
	case ReducerSum, ReducerAvg, ReducerRatio:
		sum.Reducer = Reducer(reducer)
	default:
		return nil, fmt.Errorf("unknown reducer %q", reducer)
	}

	if mf := v.LookupPath(cue.ParsePath("matchField")); mf.Exists() {
		if sum.MatchField, err = mf.String(); err != nil {
			return nil, fmt.Errorf("matchField: %w", err)
		}
	}
	if mv := v.LookupPath(cue.ParsePath("matchValues")); mv.Exists() {
		list, err := mv.List()
		if err != nil {
			return nil, fmt.Errorf("matchValues: %w", err)
		}
		for list.Next() {
			s, err := list.Value().String()
			if err != nil {
				return nil, fmt.Errorf("matchValues: %w", err)
			}
			sum.MatchValues = append(sum.MatchValues, s)
		}
	}
	if pv := v.LookupPath(cue.ParsePath("percent")); pv.Exists() {
		if sum.Percent, err = pv.Bool(); err != nil {
			return nil, fmt.Errorf("percent: %w", err)
		}
	}
	if cv := v.LookupPath(cue.ParsePath("currency")); cv.Exists() {
		if sum.Currency, err = cv.Bool(); err != nil {
			return nil, fmt.Errorf("currency: %w", err)
		}
	}

	if sum.Reducer == ReducerRatio && (sum.MatchField == "" || len(sum.MatchValues) == 0) {
		return nil, fmt.Errorf("ratio reducer requires matchField and matchValues")
	}

	return sum, nil
}
