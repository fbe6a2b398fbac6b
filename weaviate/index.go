package weaviate

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// Object property names.
const (
	propText   = "text"
	propSource = "source"
)

var _ docchat.VectorIndex = (*Index)(nil)

// Index is a docchat.VectorIndex backed by one Weaviate class.
type Index struct {
	client *weaviate.Client
	name   string
	class  string
}

// NewIndex returns the index called name on client.
func NewIndex(client *weaviate.Client, name string) *Index {
	return &Index{client: client, name: name, class: ClassName(name)}
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// Class returns the Weaviate class the index is stored in.
func (i *Index) Class() string {
	return i.class
}

// Ensure creates the class if it does not exist. An existing class is
// checked against dimension by sampling one stored vector.
func (i *Index) Ensure(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return docchat.Errorf(docchat.EINVALID, "dimension must be positive, got %d", dimension)
	}
	if i.class == "" {
		return docchat.Errorf(docchat.EINVALID, "invalid index name %q", i.name)
	}

	exists, err := i.client.Schema().ClassExistenceChecker().WithClassName(i.class).Do(ctx)
	if err != nil {
		return translateError("check class", err)
	}
	if !exists {
		class := &models.Class{
			Class:       i.class,
			Description: fmt.Sprintf("docchat index %s", i.name),
			Vectorizer:  "none",
			Properties: []*models.Property{
				{Name: propText, DataType: []string{"text"}},
				{Name: propSource, DataType: []string{"text"}},
			},
		}
		return translateError("create class", i.client.Schema().ClassCreator().WithClass(class).Do(ctx))
	}

	existing, err := i.sampleDimension(ctx)
	if err != nil {
		return err
	}
	if existing != 0 && existing != dimension {
		return docchat.Errorf(docchat.EINVALID, "index %s has dimension %d, got %d", i.name, existing, dimension)
	}
	return nil
}

// sampleDimension returns the length of one stored vector, or zero when the
// class is empty.
func (i *Index) sampleDimension(ctx context.Context) (int, error) {
	rows, err := i.get(ctx, i.client.GraphQL().Get().
		WithClassName(i.class).
		WithLimit(1).
		WithFields(graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "vector"}}}))
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if additional, ok := row["_additional"].(map[string]interface{}); ok {
			if vector, ok := additional["vector"].([]interface{}); ok {
				return len(vector), nil
			}
		}
	}
	return 0, nil
}

// Upsert writes records in one batch. Objects with an existing ID are
// replaced.
func (i *Index) Upsert(ctx context.Context, records []*docchat.Record) error {
	if len(records) == 0 {
		return nil
	}
	objects := make([]*models.Object, len(records))
	for n, r := range records {
		if !strfmt.IsUUID(r.ID) {
			return docchat.Errorf(docchat.EINVALID, "record id %q is not a UUID", r.ID)
		}
		objects[n] = &models.Object{
			Class: i.class,
			ID:    strfmt.UUID(r.ID),
			Properties: map[string]interface{}{
				propText:   r.Text,
				propSource: r.Source,
			},
			Vector: r.Vector,
		}
	}

	resp, err := i.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return translateError("batch upsert", err)
	}

	var failures []string
	for _, obj := range resp {
		if obj.Result == nil || obj.Result.Errors == nil {
			continue
		}
		for _, e := range obj.Result.Errors.Error {
			failures = append(failures, fmt.Sprintf("%s: %s", obj.ID, e.Message))
		}
	}
	if len(failures) > 0 {
		return docchat.Errorf(docchat.EINTERNAL, "weaviate batch upsert: %d objects failed: %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

// Search returns the k nearest objects to vector. Scores are one minus the
// cosine distance.
func (i *Index) Search(ctx context.Context, vector []float32, k int) ([]docchat.SearchResult, error) {
	if k <= 0 {
		return nil, docchat.Errorf(docchat.EINVALID, "k must be positive, got %d", k)
	}
	nearVector := i.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	rows, err := i.get(ctx, i.client.GraphQL().Get().
		WithClassName(i.class).
		WithNearVector(nearVector).
		WithLimit(k).
		WithFields(
			graphql.Field{Name: propText},
			graphql.Field{Name: propSource},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
		))
	if err != nil {
		return nil, err
	}

	results := make([]docchat.SearchResult, 0, len(rows))
	for _, row := range rows {
		var r docchat.SearchResult
		r.Text, _ = row[propText].(string)
		r.Source, _ = row[propSource].(string)
		if additional, ok := row["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				r.Score = float32(1 - distance)
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// get runs a GraphQL Get query and returns the rows for the index class.
func (i *Index) get(ctx context.Context, q *graphql.GetBuilder) ([]map[string]interface{}, error) {
	res, err := q.Do(ctx)
	if err != nil {
		return nil, translateError("query", err)
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for n, e := range res.Errors {
			msgs[n] = e.Message
		}
		return nil, docchat.Errorf(docchat.EINTERNAL, "weaviate query: %s", strings.Join(msgs, "; "))
	}

	data, ok := res.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	items, _ := data[i.class].([]interface{})
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
