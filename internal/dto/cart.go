package dto

type CartItemResponse struct {
	ID         string  `json:"id,omitempty" example:"item_4c1d"`
	ProductID  string  `json:"productId,omitempty" example:"prod_9f2c"`
	Name       string  `json:"name" example:"Pelicula 3D"`
	ModelName  string  `json:"modelName,omitempty" example:"Galaxy S24"`
	Quantity   int     `json:"quantity" example:"10"`
	UnitPrice  float64 `json:"unitPrice" example:"4.5"`
	TotalPrice float64 `json:"totalPrice" example:"45"`
}

type CartAnalyticsResponse struct {
	TimeOnSiteSeconds int64                   `json:"timeOnSiteSeconds" example:"420"`
	CategoriesVisited []CategoryVisitResponse `json:"categoriesVisited"`
	SearchTerms       []string                `json:"searchTerms"`
	ProductsViewed    []ProductViewResponse   `json:"productsViewed"`
}

type CartSnapshotResponse struct {
	SessionID string                `json:"sessionId" example:"sess_8a1b9c"`
	Whatsapp  string                `json:"whatsapp,omitempty" example:"+5511912345678"`
	Items     []CartItemResponse    `json:"items"`
	Total     float64               `json:"total" example:"189.9"`
	Analytics CartAnalyticsResponse `json:"analytics"`
}

type CartDetailResponse struct {
	Success bool                  `json:"success" example:"true"`
	Cart    *CartSnapshotResponse `json:"cart"`
}
