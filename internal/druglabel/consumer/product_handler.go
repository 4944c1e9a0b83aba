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

package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/model"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/repository"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// ProductHandler applies product events against the product store.
type ProductHandler struct {
	products repository.ProductRepository
	log      *zap.Logger
}

// NewProductHandler creates a product event handler.
func NewProductHandler(products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products, log: logger.GetLogger()}
}

// Handle dispatches a product event by type. Unknown event types are an
// error so the router dead-letters them instead of silently dropping.
func (h *ProductHandler) Handle(ctx context.Context, p *event.Payload) error {
	var payload event.ProductPayload
	if err := json.Unmarshal(p.Data, &payload); err != nil {
		return fmt.Errorf("malformed product payload: %w", err)
	}

	switch event.ProductEventType(p.EventType) {
	case event.ProductAddWithPharma:
		return h.add(&payload)
	case event.ProductUpdateWithPharma:
		return h.update(&payload)
	case event.ProductDelete:
		return h.delete(&payload)
	case event.ProductStockUpdate:
		return h.updateStock(&payload)
	case event.ProductBulkStockUpdate:
		return h.bulkUpdateStock(&payload)
	default:
		return fmt.Errorf("unknown product event type %q", p.EventType)
	}
}

func (h *ProductHandler) add(payload *event.ProductPayload) error {
	if payload.Product == nil || payload.Product.ProCode == "" {
		return fmt.Errorf("product add event missing pro_code")
	}

	existing, err := h.products.FindByCode(payload.Product.ProCode)
	if err != nil {
		return fmt.Errorf("check product %s: %w", payload.Product.ProCode, err)
	}
	if existing != nil {
		h.log.Warn("product already exists, skipping add",
			zap.String("pro_code", payload.Product.ProCode))
		return nil
	}

	product := productFromEvent(payload.Product)
	pharma := pharmaFromEvent(payload.Pharma)
	if err := h.products.CreateWithPharma(product, pharma); err != nil {
		if repository.IsDuplicateKey(err) {
			// Lost a race with a concurrent insert; already applied.
			h.log.Warn("product insert hit duplicate key, skipping",
				zap.String("pro_code", payload.Product.ProCode))
			return nil
		}
		return fmt.Errorf("create product %s: %w", payload.Product.ProCode, err)
	}

	h.log.Info("product created",
		zap.String("pro_code", product.ProCode),
		zap.String("pro_name", product.ProName),
		zap.Bool("with_pharma", pharma != nil))
	return nil
}

func (h *ProductHandler) update(payload *event.ProductPayload) error {
	if payload.Product == nil || payload.Product.ProCode == "" {
		return fmt.Errorf("product update event missing pro_code")
	}

	product := productFromEvent(payload.Product)
	pharma := pharmaFromEvent(payload.Pharma)
	if err := h.products.UpdateWithPharma(product, pharma); err != nil {
		return fmt.Errorf("update product %s: %w", product.ProCode, err)
	}

	h.log.Info("product updated", zap.String("pro_code", product.ProCode))
	return nil
}

func (h *ProductHandler) delete(payload *event.ProductPayload) error {
	if payload.Product == nil || payload.Product.ProCode == "" {
		return fmt.Errorf("product delete event missing pro_code")
	}

	if err := h.products.Delete(payload.Product.ProCode); err != nil {
		return fmt.Errorf("delete product %s: %w", payload.Product.ProCode, err)
	}

	h.log.Info("product deleted", zap.String("pro_code", payload.Product.ProCode))
	return nil
}

func (h *ProductHandler) updateStock(payload *event.ProductPayload) error {
	if payload.Product == nil || payload.Product.ProCode == "" {
		return fmt.Errorf("stock update event missing pro_code")
	}
	if payload.Stock == nil {
		return fmt.Errorf("stock update event missing stock value")
	}

	if err := h.products.UpdateStock(payload.Product.ProCode, *payload.Stock); err != nil {
		return fmt.Errorf("update stock for %s: %w", payload.Product.ProCode, err)
	}

	h.log.Info("product stock updated",
		zap.String("pro_code", payload.Product.ProCode),
		zap.Float64("stock", *payload.Stock))
	return nil
}

type stockItem struct {
	ProCode string  `json:"pro_code"`
	Stock   float64 `json:"stock"`
}

func (h *ProductHandler) bulkUpdateStock(payload *event.ProductPayload) error {
	var items []stockItem
	if err := json.Unmarshal(payload.Items, &items); err != nil {
		return fmt.Errorf("malformed bulk stock items: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("bulk stock update with no items")
	}

	var failed int
	for _, item := range items {
		if err := h.products.UpdateStock(item.ProCode, item.Stock); err != nil {
			if repository.IsNotFound(err) {
				h.log.Warn("bulk stock item skipped, product absent",
					zap.String("pro_code", item.ProCode),
					zap.String("batch_id", payload.BatchID))
				continue
			}
			failed++
			h.log.Error("bulk stock item failed",
				zap.String("pro_code", item.ProCode),
				zap.String("batch_id", payload.BatchID),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("bulk stock update: %d of %d items failed", failed, len(items))
	}

	h.log.Info("bulk stock update applied",
		zap.String("batch_id", payload.BatchID),
		zap.Int("items", len(items)))
	return nil
}

func productFromEvent(data *event.ProductData) *model.Product {
	return &model.Product{
		ProCode:        data.ProCode,
		ProName:        data.ProName,
		ProNameEng:     data.ProNameEng,
		ProGenericName: data.ProGenericName,
		ProUnit:        data.ProUnit,
		ProPrice:       data.ProPrice,
		ProInStock:     data.ProInStock,
		ProBarcode:     data.ProBarcode,
	}
}

func pharmaFromEvent(data *event.PharmaData) *model.ProductPharma {
	if data == nil {
		return nil
	}
	return &model.ProductPharma{
		PPProCode:   data.PPProCode,
		PPEatAmount: data.PPEatAmount,
		PPDayAmount: data.PPDayAmount,
		PPPrint:     data.PPPrint,
	}
}
