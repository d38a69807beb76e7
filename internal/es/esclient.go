package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/sellergrid/marketplace/internal/config"
	"github.com/sellergrid/marketplace/internal/models"
)

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es info: %s: %s", res.Status(), body)
	}

	return client, nil
}

// Indexer keeps the product index in sync with the catalog. The relational
// store stays authoritative for search results; the index feeds the
// storefront suggest box. A nil Indexer is a no-op.
type Indexer struct {
	Client *elasticsearch.Client
	Index  string
}

type productDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Price       string `json:"price"`
	IsActive    bool   `json:"is_active"`
}

func (ix *Indexer) IndexProduct(ctx context.Context, p *models.Product) error {
	if ix == nil || ix.Client == nil {
		return nil
	}

	doc := productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Condition:   p.Condition,
		Price:       p.Price.String(),
		IsActive:    p.IsActive,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("es index: encode: %w", err)
	}

	res, err := ix.Client.Index(
		ix.Index,
		&buf,
		ix.Client.Index.WithDocumentID(doc.ID),
		ix.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteProduct(ctx context.Context, id string) error {
	if ix == nil || ix.Client == nil {
		return nil
	}

	res, err := ix.Client.Delete(
		ix.Index,
		id,
		ix.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}
