package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

const (
	exportSheet    = "Sheet1"
	exportFilename = "inventory.xlsx"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeadings = []string{"ID", "Name", "Price", "Quantity"}

func (s *Server) handleExport(c *gin.Context) {
	products, err := s.inv.Inventory(c.Request.Context())
	if err != nil {
		s.fail(c, "handleExport", "listing inventory for export", nil, err)
		return
	}

	// Render fully before any header goes out so a failure still gets a
	// clean error page.
	var buf bytes.Buffer
	if err := WriteInventoryXLSX(&buf, products); err != nil {
		s.fail(c, "handleExport", "writing xlsx", len(products), err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+exportFilename)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

// WriteInventoryXLSX writes products as a one-sheet workbook: a heading row
// followed by one row per product.
func WriteInventoryXLSX(w io.Writer, products []types.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, h := range exportHeadings {
		if err := setCell(f, col+1, 1, h); err != nil {
			return err
		}
	}
	for i, p := range products {
		row := i + 2
		for col, v := range []any{p.ID, p.Name, p.Price, p.Quantity} {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(exportSheet, cell, v); err != nil {
		return fmt.Errorf("setting %s: %w", cell, err)
	}
	return nil
}
