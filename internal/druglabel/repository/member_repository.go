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

// MemberRepository is the interface for member persistence.
type MemberRepository interface {
	// FindByUsername returns the member with the given natural key, or
	// (nil, nil) when absent.
	FindByUsername(username string) (*model.Member, error)
	// Create inserts a new member. Unique constraint violations surface
	// unchanged so callers can classify them with IsDuplicateKey.
	Create(member *model.Member) error
	// Update updates the member identified by member.MemID. Returns
	// ErrNotFound when no row matches.
	Update(member *model.Member) error
	// Delete removes a member by username.
	Delete(username string) error
}

// memberRepository is the implementation of the MemberRepository interface.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) FindByUsername(username string) (*model.Member, error) {
	var member model.Member
	result := r.db.Where("mem_username = ?", username).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &member, nil
}

func (r *memberRepository) Create(member *model.Member) error {
	return r.db.Create(member).Error
}

func (r *memberRepository) Update(member *model.Member) error {
	res := r.db.Model(&model.Member{}).Where("mem_id = ?", member.MemID).Updates(member)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *memberRepository) Delete(username string) error {
	res := r.db.Where("mem_username = ?", username).Delete(&model.Member{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
