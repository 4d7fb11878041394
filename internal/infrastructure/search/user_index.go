// Package search keeps the user directory index in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, Index: index}
}

// userDocument is what gets indexed: the public view, flattened.
type userDocument struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Username           string `json:"username"`
	UserIdentification string `json:"user_identification"`
	Profile            string `json:"profile"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	LastUpdate         string `json:"last_update"`
}

func toDocument(v application.UserView) userDocument {
	d := userDocument{
		ID:                 v.ID,
		Name:               v.Name,
		Email:              v.Email,
		Username:           v.Username,
		UserIdentification: v.UserIdentification,
		Profile:            string(v.Profile),
		LastUpdate:         v.LastUpdate.Format(time.RFC3339Nano),
	}
	if v.Address != nil {
		d.City = v.Address.City
		d.State = v.Address.State
	}
	return d
}

func (d userDocument) view() application.UserView {
	v := application.UserView{
		ID:                 d.ID,
		Name:               d.Name,
		Email:              d.Email,
		Username:           d.Username,
		UserIdentification: d.UserIdentification,
		Profile:            entity.Profile(d.Profile),
	}
	if t, err := time.Parse(time.RFC3339Nano, d.LastUpdate); err == nil {
		v.LastUpdate = t
	}
	if d.City != "" || d.State != "" {
		v.Address = &application.AddressView{City: d.City, State: d.State}
	}
	return v
}

func (x *UserIndex) IndexUser(ctx context.Context, v application.UserView) error {
	b, err := json.Marshal(toDocument(v))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: v.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index user %s: %s", v.ID, res.Status())
	}
	return nil
}

func (x *UserIndex) DeleteUser(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// already gone is fine
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete user %s: %s", id, res.Status())
	}
	return nil
}

// SearchUsers runs a multi_match query over name, username and email.
func (x *UserIndex) SearchUsers(ctx context.Context, q string, size int) ([]application.UserView, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	b, err := json.Marshal(buildQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search users: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.UserView, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.view())
	}
	return out, nil
}

func buildQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "username^2", "email"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
}

var _ application.UserIndexer = (*UserIndex)(nil)
