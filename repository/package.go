package repository

import (
	"context"
	"sekarnet/domain"

	"gorm.io/gorm"
)

type packageRepo struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) domain.PackageRepository {
	return &packageRepo{db: db}
}

func (r *packageRepo) CreatePackage(ctx context.Context, pkg *domain.Package) error {
	return dbError(r.db.WithContext(ctx).Create(pkg).Error)
}

func (r *packageRepo) UpdatePackage(ctx context.Context, pkg *domain.Package) error {
	return dbError(r.db.WithContext(ctx).Save(pkg).Error)
}

func (r *packageRepo) GetPackageByID(ctx context.Context, id uint) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.db.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, notFound(err, "package")
	}
	return &pkg, nil
}

func (r *packageRepo) GetAllPackages(ctx context.Context) ([]domain.Package, error) {
	var pkgs []domain.Package
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&pkgs).Error; err != nil {
		return nil, dbError(err)
	}
	return pkgs, nil
}
