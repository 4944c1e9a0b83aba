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

package model

// Prescription is a dispensed prescription log entry. PrescNumber is
// the natural key.
type Prescription struct {
	PrescID     int64  `gorm:"column:presc_id;primaryKey;autoIncrement" json:"presc_id"`
	PrescNumber string `gorm:"column:presc_number;uniqueIndex;not null" json:"presc_number"`
	MemUsername string `gorm:"column:mem_username;index" json:"mem_username,omitempty"`
	ProCode     string `gorm:"column:pro_code;index" json:"pro_code,omitempty"`
	Dosage      string `gorm:"column:dosage" json:"dosage,omitempty"`
	Status      string `gorm:"column:status" json:"status,omitempty"`
}

// TableName overrides the gorm default.
func (Prescription) TableName() string { return "prescription_logs" }
