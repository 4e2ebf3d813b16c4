package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/itfview/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

const metaKey = "#meta"

// Parse decodes an ITF document held in memory.
func Parse(data []byte) (*domain.Trace, error) {
	return Decode(bytes.NewReader(data))
}

// Load reads and decodes the ITF document at path.
func Load(path string) (*domain.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode reads one ITF document from r.
func Decode(r io.Reader) (*domain.Trace, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedTrace, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, malformed(&ValidationError{Key: "$", Reason: "must be an object", Value: doc})
	}
	return build(obj)
}

func build(doc map[string]any) (*domain.Trace, error) {
	var errs []error
	t := &domain.Trace{}

	if raw, ok := doc[metaKey]; ok {
		if err := decodeMeta(raw, &t.Meta); err != nil {
			errs = append(errs, &ValidationError{Key: metaKey, Reason: err.Error(), Value: raw})
		}
	}

	vars, verrs := parseVars(doc["vars"])
	errs = append(errs, verrs...)
	t.Vars = vars

	states, serrs := parseStates(doc["states"])
	errs = append(errs, serrs...)
	t.States = states

	if len(errs) > 0 {
		return nil, malformed(errs...)
	}
	return t, nil
}

func parseVars(raw any) ([]string, []error) {
	if raw == nil {
		return nil, []error{&ValidationError{Key: "vars", Reason: "required"}}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, []error{&ValidationError{Key: "vars", Reason: "must be a list of names", Value: raw}}
	}

	var errs []error
	vars := make([]string, 0, len(items))
	for i, it := range items {
		name, ok := it.(string)
		if !ok {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("vars[%d]", i), Reason: "must be a string", Value: it})
			continue
		}
		vars = append(vars, name)
	}
	return vars, errs
}

func parseStates(raw any) ([]domain.State, []error) {
	if raw == nil {
		return nil, []error{&ValidationError{Key: "states", Reason: "required"}}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, []error{&ValidationError{Key: "states", Reason: "must be a list of objects", Value: raw}}
	}

	var errs []error
	states := make([]domain.State, 0, len(items))
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			errs = append(errs, &ValidationError{Key: fmt.Sprintf("states[%d]", i), Reason: "must be an object", Value: it})
			continue
		}

		vars := make(map[string]any, len(obj))
		for k, v := range obj {
			if k != metaKey {
				vars[k] = v
			}
		}
		st := domain.NewState(i, vars)
		if rawMeta, ok := obj[metaKey]; ok {
			if err := decodeMeta(rawMeta, &st.Meta); err != nil {
				errs = append(errs, &ValidationError{Key: fmt.Sprintf("states[%d].%s", i, metaKey), Reason: err.Error(), Value: rawMeta})
				continue
			}
		}
		states = append(states, st)
	}
	return states, errs
}

// decodeMeta fills out from a "#meta" object with weakly typed input.
func decodeMeta(raw any, out any) error {
	if _, ok := raw.(map[string]any); !ok {
		return errors.New("must be an object")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func malformed(errs ...error) error {
	return fmt.Errorf("%w: %w", domain.ErrMalformedTrace, &AggregateError{Errors: errs})
}
