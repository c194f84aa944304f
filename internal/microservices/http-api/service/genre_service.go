package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/textnorm"
)

type GenreService interface {
	List(ctx context.Context) ([]dto.GenreResponse, error)
	Create(ctx context.Context, req dto.CreateGenreDTO) (*models.Genre, error)
	Update(ctx context.Context, slug string, req dto.UpdateGenreDTO) (*models.Genre, error)
	// ResolveName maps a genre slug to its display name; unknown input is
	// returned unchanged so plain names keep working.
	ResolveName(ctx context.Context, nameOrSlug string) (string, error)
}

type genreService struct {
	repo  repository.GenreRepository
	cache Cache
}

func NewGenreService(repo repository.GenreRepository, cache Cache) GenreService {
	if cache == nil {
		cache = NoCache
	}
	return &genreService{repo: repo, cache: cache}
}

func (s *genreService) List(ctx context.Context) ([]dto.GenreResponse, error) {
	var cached []dto.GenreResponse
	if s.cache.GetJSON(ctx, genresCacheKey, &cached) {
		return cached, nil
	}

	genres, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, dto.GenreFromModel(g))
	}
	s.cache.SetJSON(ctx, genresCacheKey, out)
	return out, nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreDTO) (*models.Genre, error) {
	name := strings.TrimSpace(req.Name)
	slug := textnorm.Slug(name)
	if slug == "" {
		return nil, ErrInvalidGenre
	}
	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, ErrGenreInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	g := &models.Genre{Name: name, Description: req.Description, IsActive: true}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, genresCacheKey)
	return g, nil
}

func (s *genreService) Update(ctx context.Context, slug string, req dto.UpdateGenreDTO) (*models.Genre, error) {
	g, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrGenreNotFound)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if textnorm.Slug(name) == "" {
			return nil, ErrInvalidGenre
		}
		g.Name = name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if err := s.repo.Save(ctx, g); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, genresCacheKey)
	return g, nil
}

func (s *genreService) ResolveName(ctx context.Context, nameOrSlug string) (string, error) {
	g, err := s.repo.FindBySlug(ctx, nameOrSlug)
	if err == nil {
		return g.Name, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nameOrSlug, nil
	}
	return "", err
}
