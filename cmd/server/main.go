package main

import (
	_ "github.com/distrifone/tracking-backend/docs"
	"github.com/distrifone/tracking-backend/internal/bootstrap"
)

// @title Visit Tracking API
// @version 1.0.0
// @description Visit and cart tracking reconciliation for the wholesale storefront

// @host localhost:8080
// @BasePath /v1

func main() {
	bootstrap.Run()
}
