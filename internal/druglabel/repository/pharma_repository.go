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

// PharmaRepository is the interface for standalone label info persistence.
type PharmaRepository interface {
	// FindByProCode returns the label info for a product code, or
	// (nil, nil) when absent.
	FindByProCode(proCode string) (*model.ProductPharma, error)
	// Upsert creates or updates the label info for pharma.PPProCode.
	Upsert(pharma *model.ProductPharma) error
	// Delete removes label info by product code.
	Delete(proCode string) error
}

// pharmaRepository is the implementation of the PharmaRepository interface.
type pharmaRepository struct {
	db *gorm.DB
}

// NewPharmaRepository creates a new pharma repository.
func NewPharmaRepository(db *gorm.DB) PharmaRepository {
	return &pharmaRepository{db: db}
}

func (r *pharmaRepository) FindByProCode(proCode string) (*model.ProductPharma, error) {
	var pharma model.ProductPharma
	result := r.db.Where("pp_procode = ?", proCode).First(&pharma)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &pharma, nil
}

func (r *pharmaRepository) Upsert(pharma *model.ProductPharma) error {
	res := r.db.Model(&model.ProductPharma{}).
		Where("pp_procode = ?", pharma.PPProCode).
		Updates(pharma)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.Create(pharma).Error
	}
	return nil
}

func (r *pharmaRepository) Delete(proCode string) error {
	res := r.db.Where("pp_procode = ?", proCode).Delete(&model.ProductPharma{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
