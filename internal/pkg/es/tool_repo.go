package es

import (
	"BuilderCentral/internal/pkg/util"
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/goccy/go-json"
)

// MaxSearchDepth 深分页截断
const MaxSearchDepth = 1000

type ToolRepo interface {
	SearchTools(ctx context.Context, keyword, tag string, from, size int) ([]string, int64, error)
	IndexTool(ctx context.Context, tool *ToolES) error
	DeleteTool(ctx context.Context, id string) error
}

type ToolRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewToolRepo(client *elasticsearch.TypedClient, index string) ToolRepo {
	return &ToolRepoImpl{client: client, index: index}
}

// SearchTools 按相关度返回工具 ID 与命中总数
func (s *ToolRepoImpl) SearchTools(ctx context.Context, keyword, tag string, from, size int) ([]string, int64, error) {
	if from >= MaxSearchDepth {
		return []string{}, 0, nil
	}

	boolQuery := &types.BoolQuery{
		Must: []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"name^3", "short_description^2", "description", "technology", "tags"},
				Boost:  util.PtrFloat32(1.0),
			},
		}},
	}
	if tag != "" {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{"tags.keyword": {Value: tag}},
		}}
	}

	resp, err := s.client.Search().
		Index(s.index).
		Query(&types.Query{Bool: boolQuery}).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}

	ids := make([]string, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(hit.Source_, &doc); err != nil || doc.ID == "" {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, total, nil
}

func (s *ToolRepoImpl) IndexTool(ctx context.Context, tool *ToolES) error {
	_, err := s.client.Index(s.index).
		Id(tool.ID).
		Document(tool).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *ToolRepoImpl) DeleteTool(ctx context.Context, id string) error {
	_, err := s.client.Delete(s.index, id).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}
