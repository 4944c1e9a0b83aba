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
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/repository"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// PharmaHandler applies standalone label-info events against the
// product_pharma store.
type PharmaHandler struct {
	pharma repository.PharmaRepository
	log    *zap.Logger
}

// NewPharmaHandler creates a pharma label event handler.
func NewPharmaHandler(pharma repository.PharmaRepository) *PharmaHandler {
	return &PharmaHandler{pharma: pharma, log: logger.GetLogger()}
}

// Handle dispatches a pharma label event by type.
func (h *PharmaHandler) Handle(ctx context.Context, p *event.Payload) error {
	var payload event.PharmaData
	if err := json.Unmarshal(p.Data, &payload); err != nil {
		return fmt.Errorf("malformed pharma payload: %w", err)
	}
	if payload.PPProCode == "" {
		return fmt.Errorf("pharma event missing pp_procode")
	}

	switch event.PharmaEventType(p.EventType) {
	case event.PharmaAdd:
		return h.add(&payload)
	case event.PharmaUpdate:
		return h.update(&payload)
	case event.PharmaDelete:
		return h.delete(payload.PPProCode)
	default:
		return fmt.Errorf("unknown pharma event type %q", p.EventType)
	}
}

func (h *PharmaHandler) add(payload *event.PharmaData) error {
	existing, err := h.pharma.FindByProCode(payload.PPProCode)
	if err != nil {
		return fmt.Errorf("check pharma for %s: %w", payload.PPProCode, err)
	}
	if existing != nil {
		h.log.Warn("pharma info already exists, skipping add",
			zap.String("pp_procode", payload.PPProCode))
		return nil
	}

	if err := h.pharma.Upsert(pharmaFromEvent(payload)); err != nil {
		if repository.IsDuplicateKey(err) {
			h.log.Warn("pharma insert hit duplicate key, skipping",
				zap.String("pp_procode", payload.PPProCode))
			return nil
		}
		return fmt.Errorf("create pharma for %s: %w", payload.PPProCode, err)
	}

	h.log.Info("pharma info created", zap.String("pp_procode", payload.PPProCode))
	return nil
}

func (h *PharmaHandler) update(payload *event.PharmaData) error {
	if err := h.pharma.Upsert(pharmaFromEvent(payload)); err != nil {
		return fmt.Errorf("upsert pharma for %s: %w", payload.PPProCode, err)
	}

	h.log.Info("pharma info updated", zap.String("pp_procode", payload.PPProCode))
	return nil
}

func (h *PharmaHandler) delete(proCode string) error {
	if err := h.pharma.Delete(proCode); err != nil {
		return fmt.Errorf("delete pharma for %s: %w", proCode, err)
	}

	h.log.Info("pharma info deleted", zap.String("pp_procode", proCode))
	return nil
}
