package service

import (
	"context"
	"sekarnet/domain"
	"strings"

	"gorm.io/datatypes"
)

type packageService struct {
	repo  domain.PackageRepository
	cache domain.PackageCache
}

// NewPackageService accepts a nil cache.
func NewPackageService(repo domain.PackageRepository, cache domain.PackageCache) domain.PackageUseCase {
	return &packageService{repo: repo, cache: cache}
}

func (s *packageService) GetAllPackages(ctx context.Context) ([]domain.Package, error) {
	if s.cache != nil {
		if pkgs, ok := s.cache.Get(ctx); ok {
			return pkgs, nil
		}
	}
	pkgs, err := s.repo.GetAllPackages(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, pkgs)
	}
	return pkgs, nil
}

func validatePackage(p *domain.Package) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	if p.DownloadSpeed <= 0 || p.UploadSpeed <= 0 {
		return invalid("speeds must be positive")
	}
	if p.Price <= 0 {
		return invalid("price must be positive")
	}
	return nil
}

func (s *packageService) CreatePackage(ctx context.Context, pkg *domain.Package) (*domain.Package, error) {
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	pkg.ID = 0
	if pkg.Features == nil {
		pkg.Features = datatypes.JSONSlice[string]{}
	}
	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

func (s *packageService) UpdatePackage(ctx context.Context, id uint, in domain.PackageUpdate) (*domain.Package, error) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		pkg.Name = *in.Name
	}
	if in.Description != nil {
		pkg.Description = *in.Description
	}
	if in.DownloadSpeed != nil {
		pkg.DownloadSpeed = *in.DownloadSpeed
	}
	if in.UploadSpeed != nil {
		pkg.UploadSpeed = *in.UploadSpeed
	}
	if in.Price != nil {
		pkg.Price = *in.Price
	}
	if in.Features != nil {
		pkg.Features = datatypes.NewJSONSlice(in.Features)
	}
	if in.IsPopular != nil {
		pkg.IsPopular = *in.IsPopular
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePackage(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

func (s *packageService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
