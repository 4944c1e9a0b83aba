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

// Member is a pharmacy member account. MemUsername is the natural key.
type Member struct {
	MemID       int64  `gorm:"column:mem_id;primaryKey;autoIncrement" json:"mem_id"`
	MemUsername string `gorm:"column:mem_username;uniqueIndex;not null" json:"mem_username"`
	MemPassword string `gorm:"column:mem_password" json:"-"`
	MemNameSite string `gorm:"column:mem_namesite" json:"mem_nameSite,omitempty"`
	MemLicense  string `gorm:"column:mem_license" json:"mem_license,omitempty"`
	MemType     int    `gorm:"column:mem_type;default:1" json:"mem_type,omitempty"`
	MemProvince string `gorm:"column:mem_province" json:"mem_province,omitempty"`
	MemAddress  string `gorm:"column:mem_address" json:"mem_address,omitempty"`
	MemPhone    string `gorm:"column:mem_phone" json:"mem_phone,omitempty"`
}

// TableName overrides the gorm default.
func (Member) TableName() string { return "member" }
