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

package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/model"
)

// ProductRepository is the interface for product persistence.
type ProductRepository interface {
	// FindByCode returns the product with the given natural key, or
	// (nil, nil) when absent. This is the durable existence check.
	FindByCode(code string) (*model.Product, error)
	// CreateWithPharma inserts a product and its optional label info in
	// one transaction. Unique constraint violations surface unchanged so
	// callers can classify them with IsDuplicateKey.
	CreateWithPharma(product *model.Product, pharma *model.ProductPharma) error
	// UpdateWithPharma updates an existing product resolved by code.
	// Returns ErrNotFound when the product does not exist.
	UpdateWithPharma(product *model.Product, pharma *model.ProductPharma) error
	// UpdateStock sets the stock level of a product by code.
	UpdateStock(code string, stock float64) error
	// Delete removes a product and its label info by code.
	Delete(code string) error
}

// productRepository is the implementation of the ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	result := r.db.Where("pro_code = ?", code).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &product, nil
}

func (r *productRepository) CreateWithPharma(product *model.Product, pharma *model.ProductPharma) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		if pharma != nil {
			pharma.PPProCode = product.ProCode
			if err := tx.Create(pharma).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepository) UpdateWithPharma(product *model.Product, pharma *model.ProductPharma) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("pro_code = ?", product.ProCode).Updates(product)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if pharma != nil {
			pharma.PPProCode = product.ProCode
			res = tx.Model(&model.ProductPharma{}).Where("pp_procode = ?", product.ProCode).Updates(pharma)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := tx.Create(pharma).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *productRepository) UpdateStock(code string, stock float64) error {
	res := r.db.Model(&model.Product{}).Where("pro_code = ?", code).Update("pro_instock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(code string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pp_procode = ?", code).Delete(&model.ProductPharma{}).Error; err != nil {
			return err
		}
		res := tx.Where("pro_code = ?", code).Delete(&model.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
