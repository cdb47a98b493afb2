package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) importBaseStations(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer file.Close()

	// The KMZ zip reader needs random access; uploads are small catalogs.
	raw, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.basestationSvc.Import(
		c.Request.Context(),
		currentRole(c),
		currentOrg(c).ID,
		header.Filename,
		bytes.NewReader(raw),
		int64(len(raw)),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"imported": result.Imported,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
	})
}

func (s *Server) listBaseStations(c *gin.Context) {
	stations, err := s.basestationSvc.List(c.Request.Context(), currentOrg(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"baseStations": stations})
}
