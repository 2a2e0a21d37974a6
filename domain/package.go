package domain

import "context"

type PackageUpdate struct {
	Name          *string
	Description   *string
	DownloadSpeed *int
	UploadSpeed   *int
	Price         *int64
	Features      []string
	IsPopular     *bool
}

type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg *Package) error
	UpdatePackage(ctx context.Context, pkg *Package) error
	GetPackageByID(ctx context.Context, id uint) (*Package, error)
	GetAllPackages(ctx context.Context) ([]Package, error)
}

// PackageCache is optional; a nil cache means every read hits the database.
type PackageCache interface {
	Get(ctx context.Context) ([]Package, bool)
	Set(ctx context.Context, pkgs []Package)
	Invalidate(ctx context.Context)
}

type PackageUseCase interface {
	GetAllPackages(ctx context.Context) ([]Package, error)
	CreatePackage(ctx context.Context, pkg *Package) (*Package, error)
	UpdatePackage(ctx context.Context, id uint, in PackageUpdate) (*Package, error)
}
