package dto

import "time"

type CategoryVisitResponse struct {
	Name        string    `json:"name" example:"capas"`
	VisitCount  int       `json:"visitCount" example:"3"`
	LastVisitAt time.Time `json:"lastVisitAt"`
}

type ProductViewResponse struct {
	ID         string    `json:"id" example:"prod_9f2c"`
	Name       string    `json:"name" example:"Capa iPhone 15"`
	Category   string    `json:"category,omitempty" example:"capas"`
	VisitCount int       `json:"visitCount" example:"2"`
	LastViewAt time.Time `json:"lastViewAt"`
}

type VisitResponse struct {
	SessionID              string                  `json:"sessionId" example:"sess_8a1b9c"`
	Whatsapp               string                  `json:"whatsapp,omitempty" example:"+5511912345678"`
	WhatsappFormatted      string                  `json:"whatsappFormatted,omitempty" example:"+55 (11) 91234-5678"`
	StartTime              time.Time               `json:"startTime"`
	LastActivity           time.Time               `json:"lastActivity"`
	SessionDurationSeconds int64                   `json:"sessionDurationSeconds" example:"420"`
	SearchTerms            []string                `json:"searchTerms"`
	CategoriesVisited      []CategoryVisitResponse `json:"categoriesVisited"`
	ProductsViewed         []ProductViewResponse   `json:"productsViewed"`
	HasCart                bool                    `json:"hasCart" example:"true"`
	CartValue              *float64                `json:"cartValue" example:"189.9"`
	CartItemCount          *int                    `json:"cartItemCount" example:"4"`
	Status                 string                  `json:"status" example:"active"`
	WhatsappCollectedAt    *time.Time              `json:"whatsappCollectedAt,omitempty"`
}

type PaginationResponse struct {
	Page       int  `json:"page" example:"1"`
	Limit      int  `json:"limit" example:"30"`
	Total      int  `json:"total" example:"75"`
	TotalPages int  `json:"totalPages" example:"3"`
	HasNext    bool `json:"hasNext" example:"true"`
	HasPrev    bool `json:"hasPrev" example:"false"`
}

type VisitStatsResponse struct {
	Total     int `json:"total" example:"75"`
	Active    int `json:"active" example:"12"`
	Abandoned int `json:"abandoned" example:"55"`
	Completed int `json:"completed" example:"8"`
	WithCart  int `json:"withCart" example:"31"`
	WithPhone int `json:"withPhone" example:"20"`
}

type VisitListResponse struct {
	Success    bool               `json:"success" example:"true"`
	Visits     []VisitResponse    `json:"visits"`
	Pagination PaginationResponse `json:"pagination"`
	Stats      VisitStatsResponse `json:"stats"`
}
