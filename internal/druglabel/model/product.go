// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

// Package model defines the persisted entities touched by the event
// handlers. Natural keys carry unique indexes; the constraint is the
// final backstop against duplicate creation across racing instances.
package model

// Product is a drug product. ProCode is the natural key used for
// cross-instance deduplication.
type Product struct {
	ProID          int64   `gorm:"column:pro_id;primaryKey;autoIncrement" json:"pro_id"`
	ProCode        string  `gorm:"column:pro_code;uniqueIndex;not null" json:"pro_code"`
	ProName        string  `gorm:"column:pro_name" json:"pro_name"`
	ProNameEng     string  `gorm:"column:pro_nameeng" json:"pro_nameeng,omitempty"`
	ProGenericName string  `gorm:"column:pro_genericname" json:"pro_genericname,omitempty"`
	ProUnit        string  `gorm:"column:pro_unit1" json:"pro_unit1,omitempty"`
	ProPrice       float64 `gorm:"column:pro_price1" json:"pro_price1,omitempty"`
	ProInStock     float64 `gorm:"column:pro_instock" json:"pro_instock"`
	ProBarcode     string  `gorm:"column:pro_barcode1" json:"pro_barcode1,omitempty"`
}

// TableName overrides the gorm default.
func (Product) TableName() string { return "product" }

// ProductPharma holds the label/usage instructions attached to a
// product, linked by product code.
type ProductPharma struct {
	PPID        int64  `gorm:"column:pp_id;primaryKey;autoIncrement" json:"pp_id"`
	PPProCode   string `gorm:"column:pp_procode;index;not null" json:"pp_procode"`
	PPEatAmount string `gorm:"column:pp_eatamount" json:"pp_eatamount,omitempty"`
	PPDayAmount string `gorm:"column:pp_daypamount" json:"pp_daypamount,omitempty"`
	PPPrint     string `gorm:"column:pp_print" json:"pp_print,omitempty"`
}

// TableName overrides the gorm default.
func (ProductPharma) TableName() string { return "product_pharma" }
