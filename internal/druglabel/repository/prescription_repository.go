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

// PrescriptionRepository is the interface for prescription log persistence.
type PrescriptionRepository interface {
	// FindByNumber returns the prescription with the given natural key,
	// or (nil, nil) when absent.
	FindByNumber(number string) (*model.Prescription, error)
	// Create inserts a new prescription log entry.
	Create(prescription *model.Prescription) error
	// Update updates the prescription resolved by number. Returns
	// ErrNotFound when no row matches.
	Update(prescription *model.Prescription) error
	// Delete removes a prescription by number.
	Delete(number string) error
}

// prescriptionRepository is the implementation of the PrescriptionRepository interface.
type prescriptionRepository struct {
	db *gorm.DB
}

// NewPrescriptionRepository creates a new prescription repository.
func NewPrescriptionRepository(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) FindByNumber(number string) (*model.Prescription, error) {
	var presc model.Prescription
	result := r.db.Where("presc_number = ?", number).First(&presc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &presc, nil
}

func (r *prescriptionRepository) Create(prescription *model.Prescription) error {
	return r.db.Create(prescription).Error
}

func (r *prescriptionRepository) Update(prescription *model.Prescription) error {
	res := r.db.Model(&model.Prescription{}).
		Where("presc_number = ?", prescription.PrescNumber).
		Updates(prescription)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *prescriptionRepository) Delete(number string) error {
	res := r.db.Where("presc_number = ?", number).Delete(&model.Prescription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
