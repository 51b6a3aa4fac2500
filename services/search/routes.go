// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all search routes with the router.
//
// Description:
//
//	Registers all /v1/search/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/search/parse - Parse one query into a normalized intent
//	POST /v1/search/parse/batch - Parse several queries in one round trip
//	GET  /v1/search/health - Health check
//	GET  /v1/search/ready - Readiness check
//
// Example:
//
//	svc := search.NewService(cascade, 5*time.Second, logger)
//	handlers := search.NewHandlers(svc, 32, logger)
//
//	v1 := router.Group("/v1")
//	search.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	search := rg.Group("/search")
	{
		search.POST("/parse", handlers.HandleParse)
		search.POST("/parse/batch", handlers.HandleParseBatch)

		search.GET("/health", handlers.HandleHealth)
		search.GET("/ready", handlers.HandleReady)
	}
}
