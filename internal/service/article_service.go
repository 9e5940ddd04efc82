package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
)

var ErrArticleNotFound = errors.New("article not found")

type ArticleService struct {
	articles ports.ArticleRepository
	gate     *AccessGateService
}

func NewArticleService(articles ports.ArticleRepository, gate *AccessGateService) *ArticleService {
	return &ArticleService{articles: articles, gate: gate}
}

func (s *ArticleService) ListPublished(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Article, domain.AccessDecision, error) {
	articles, err := s.articles.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, domain.AccessDecision{}, err
	}

	decision := s.gate.CheckAccess(ctx, userID, FeatureArticles)
	out := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		locked := !decision.Allows(article.ID)
		out = append(out, SanitizeArticleForAccess(article, locked, decision.Message))
	}
	return out, decision, nil
}

func (s *ArticleService) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*domain.Article, error) {
	article, err := s.articles.FindBySlug(ctx, slug)
	if err != nil {
		return nil, ErrArticleNotFound
	}
	if !article.IsPublished() {
		return nil, ErrArticleNotFound
	}
	decision := s.gate.CheckAccess(ctx, userID, FeatureArticles)
	sanitized := SanitizeArticleForAccess(*article, !decision.Allows(article.ID), decision.Message)
	return &sanitized, nil
}
