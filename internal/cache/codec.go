package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LJTian/NewsRelay/internal/news"
)

const payloadFormat = "articles/v1"

type envelope struct {
	Format   string          `json:"format"`
	Articles *[]news.Article `json:"articles"`
}

// Encode 序列化文章列表；nil 按空列表写入
func Encode(articles []news.Article) ([]byte, error) {
	if articles == nil {
		articles = []news.Article{}
	}
	return json.Marshal(envelope{Format: payloadFormat, Articles: &articles})
}

// Decode 反序列化；任何损坏、截断、格式不符都返回错误，不会返回半成品
func Decode(payload []byte) ([]news.Article, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode cache payload: %w", err)
	}
	if env.Format != payloadFormat {
		return nil, fmt.Errorf("decode cache payload: unexpected format %q", env.Format)
	}
	if env.Articles == nil {
		return nil, errors.New("decode cache payload: missing articles")
	}
	for i, a := range *env.Articles {
		if a.Title == "" {
			return nil, fmt.Errorf("decode cache payload: article %d has no title", i)
		}
	}
	return *env.Articles, nil
}
