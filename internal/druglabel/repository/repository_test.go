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
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/model"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB.Close()
	}

	return gormDB, mock, cleanup
}

func TestProductRepository_FindByCode(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	rows := sqlmock.NewRows([]string{"pro_id", "pro_code", "pro_name", "pro_instock"}).
		AddRow(1, "P100", "Aspirin", 20.0)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product" WHERE pro_code = $1`)).
		WithArgs("P100", 1).
		WillReturnRows(rows)

	product, err := repo.FindByCode("P100")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Aspirin", product.ProName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByCodeAbsentIsNilNil(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product" WHERE pro_code = $1`)).
		WithArgs("NOPE", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	product, err := repo.FindByCode("NOPE")
	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductRepository_UpdateStockNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product" SET "pro_instock"=$1 WHERE pro_code = $2`)).
		WithArgs(5.0, "NOPE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStock("NOPE", 5.0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemberRepository_FindByUsername(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMemberRepository(db)

	rows := sqlmock.NewRows([]string{"mem_id", "mem_username", "mem_namesite"}).
		AddRow(7, "pharma01", "Wang Pharmacy")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "member" WHERE mem_username = $1`)).
		WithArgs("pharma01", 1).
		WillReturnRows(rows)

	member, err := repo.FindByUsername("pharma01")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, int64(7), member.MemID)
	assert.Equal(t, "Wang Pharmacy", member.MemNameSite)
}

func TestMemberRepository_UpdateMissingMember(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMemberRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "member" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(&model.Member{MemID: 99, MemNameSite: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "member_mem_username_key" (SQLSTATE 23505)`)))
	assert.False(t, IsDuplicateKey(errors.New("connection refused")))
	assert.False(t, IsDuplicateKey(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, IsNotFound(errors.New("boom")))
}
