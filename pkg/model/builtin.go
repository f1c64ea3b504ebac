package model

import (
	"context"
	"fmt"
)

// Built-in operation names installed by Attach.
const (
	OpCreate      = "create"
	OpFindByID    = "findById"
	OpFind        = "find"
	OpDestroyByID = "destroyById"
	OpCount       = "count"

	// Record-level.
	OpUpdateAttributes = "updateAttributes"
	OpReload           = "reload"
	OpDestroy          = "destroy"
)

// Attach binds the model to a datasource and installs the built-in CRUD
// operations. Results are records tagged with this model's name; proxied
// access from another model re-tags them during transcoding.
func (m *Model) Attach(ds DataSource) {
	m.ds = ds

	m.SetOperation(OpCreate, func(ctx context.Context, args []any) (any, error) {
		fields, err := argFields(m.name, OpCreate, args, 0)
		if err != nil {
			return nil, err
		}
		created, err := ds.Create(ctx, m.name, fields)
		if err != nil {
			return nil, err
		}
		return NewRecord(m.name, created), nil
	})

	m.SetOperation(OpFindByID, func(ctx context.Context, args []any) (any, error) {
		id, err := argID(m.name, OpFindByID, args, 0)
		if err != nil {
			return nil, err
		}
		found, err := ds.FindByID(ctx, m.name, id)
		if err != nil {
			return nil, err
		}
		return NewRecord(m.name, found), nil
	})

	m.SetOperation(OpFind, func(ctx context.Context, _ []any) (any, error) {
		rows, err := ds.Find(ctx, m.name)
		if err != nil {
			return nil, err
		}
		records := make([]*Record, len(rows))
		for i, row := range rows {
			records[i] = NewRecord(m.name, row)
		}
		return records, nil
	})

	m.SetOperation(OpDestroyByID, func(ctx context.Context, args []any) (any, error) {
		id, err := argID(m.name, OpDestroyByID, args, 0)
		if err != nil {
			return nil, err
		}
		return nil, ds.Destroy(ctx, m.name, id)
	})

	m.SetOperation(OpCount, func(ctx context.Context, _ []any) (any, error) {
		return ds.Count(ctx, m.name)
	})

	m.SetRecordOperation(OpUpdateAttributes, func(ctx context.Context, id string, args []any) (any, error) {
		fields, err := argFields(m.name, OpUpdateAttributes, args, 0)
		if err != nil {
			return nil, err
		}
		updated, err := ds.UpdateAttributes(ctx, m.name, id, fields)
		if err != nil {
			return nil, err
		}
		return NewRecord(m.name, updated), nil
	})

	m.SetRecordOperation(OpReload, func(ctx context.Context, id string, _ []any) (any, error) {
		found, err := ds.FindByID(ctx, m.name, id)
		if err != nil {
			return nil, err
		}
		return NewRecord(m.name, found), nil
	})

	m.SetRecordOperation(OpDestroy, func(ctx context.Context, id string, _ []any) (any, error) {
		return nil, ds.Destroy(ctx, m.name, id)
	})
}

// argFields extracts a field map argument. Records are accepted and
// flattened to their fields.
func argFields(modelName, op string, args []any, pos int) (map[string]any, error) {
	if pos >= len(args) {
		return nil, fmt.Errorf("%s.%s: missing field map argument", modelName, op)
	}
	switch v := args[pos].(type) {
	case map[string]any:
		return v, nil
	case *Record:
		return v.Fields(), nil
	default:
		return nil, fmt.Errorf("%s.%s: expected field map argument, got %T", modelName, op, args[pos])
	}
}

// argID extracts a string identifier argument.
func argID(modelName, op string, args []any, pos int) (string, error) {
	if pos >= len(args) {
		return "", fmt.Errorf("%s.%s: missing id argument", modelName, op)
	}
	id, ok := args[pos].(string)
	if !ok {
		return "", fmt.Errorf("%s.%s: expected string id argument, got %T", modelName, op, args[pos])
	}
	return id, nil
}
