package handler

import (
	"strconv"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/tealeg/xlsx"
)

var catalogHeaders = []string{
	"ID", "Barcode", "Name", "Brand", "Description",
	"PricePurchase", "PriceSale", "Stock", "Sold", "CreatedAt",
}

func catalogWorkbook(products []model.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range catalogHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Barcode)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Brand)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.PricePurchase.StringFixed(3))
		row.AddCell().SetString(p.PriceSale.StringFixed(2))
		row.AddCell().SetString(strconv.Itoa(p.Stok))
		row.AddCell().SetString(strconv.Itoa(p.NumSales))
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}
