package dto

type IngestMetricsResponse struct {
	Date        string `json:"date" example:"2026-08-30"`
	Hour        int    `json:"hour" example:"14"`
	Tracked     int64  `json:"tracked" example:"120"`
	Carts       int64  `json:"carts" example:"35"`
	Rejected    int64  `json:"rejected" example:"4"`
	RateLimited int64  `json:"rateLimited" example:"2"`
}

type IngestMetricsListResponse struct {
	Success bool                    `json:"success" example:"true"`
	Hours   int                     `json:"hours" example:"24"`
	Metrics []IngestMetricsResponse `json:"metrics"`
}
