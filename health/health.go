// Package health serves the fixed liveness payload of a service.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusOK is the only status a live service reports.
const StatusOK = "ok"

// Report is the body of GET /healthz.
type Report struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// New returns the report for service.
func New(service string) Report {
	return Report{Status: StatusOK, Service: service}
}

// Handler always answers 200 with the report for service. It does not
// depend on any downstream service.
func Handler(service string) gin.HandlerFunc {
	report := New(service)

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, report)
	}
}
