package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopcatalog/internal/config"
	applog "shopcatalog/internal/log"
	"shopcatalog/internal/repos"
	"shopcatalog/internal/services"
)

type Deps struct {
	CatalogHandler  *CatalogHandler
	ProductAPI      *ProductAPIHandler
	TaxonomyHandler *TaxonomyHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	store := repos.NewCatalogRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	audit := applog.Recorder{}

	catalogSvc := services.NewCatalogService(store)
	productSvc := services.NewProductService(store, audit)
	orderSvc := services.NewOrderService(orderRepo, audit)

	return &Deps{
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc, PageSize: cfg.PageSize},
		ProductAPI:      &ProductAPIHandler{Products: productSvc, PageSize: cfg.PageSize},
		TaxonomyHandler: &TaxonomyHandler{Store: store},
		AdminHandler:    &AdminHandler{Orders: orderSvc, Products: productSvc},
	}
}
