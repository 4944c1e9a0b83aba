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

// PrescriptionHandler applies prescription events against the
// prescription log store.
type PrescriptionHandler struct {
	prescriptions repository.PrescriptionRepository
	log           *zap.Logger
}

// NewPrescriptionHandler creates a prescription event handler.
func NewPrescriptionHandler(prescriptions repository.PrescriptionRepository) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions, log: logger.GetLogger()}
}

// Handle dispatches a prescription event by type.
func (h *PrescriptionHandler) Handle(ctx context.Context, p *event.Payload) error {
	var payload event.PrescriptionPayload
	if err := json.Unmarshal(p.Data, &payload); err != nil {
		return fmt.Errorf("malformed prescription payload: %w", err)
	}
	if payload.PrescNumber == "" {
		return fmt.Errorf("prescription event missing presc_number")
	}

	switch event.PrescriptionEventType(p.EventType) {
	case event.PrescriptionAdd:
		return h.add(&payload)
	case event.PrescriptionUpdate:
		return h.update(&payload)
	case event.PrescriptionDelete:
		return h.delete(payload.PrescNumber)
	default:
		return fmt.Errorf("unknown prescription event type %q", p.EventType)
	}
}

func (h *PrescriptionHandler) add(payload *event.PrescriptionPayload) error {
	existing, err := h.prescriptions.FindByNumber(payload.PrescNumber)
	if err != nil {
		return fmt.Errorf("check prescription %s: %w", payload.PrescNumber, err)
	}
	if existing != nil {
		h.log.Warn("prescription already exists, skipping add",
			zap.String("presc_number", payload.PrescNumber))
		return nil
	}

	if err := h.prescriptions.Create(prescriptionFromEvent(payload)); err != nil {
		if repository.IsDuplicateKey(err) {
			h.log.Warn("prescription insert hit duplicate key, skipping",
				zap.String("presc_number", payload.PrescNumber))
			return nil
		}
		return fmt.Errorf("create prescription %s: %w", payload.PrescNumber, err)
	}

	h.log.Info("prescription logged", zap.String("presc_number", payload.PrescNumber))
	return nil
}

func (h *PrescriptionHandler) update(payload *event.PrescriptionPayload) error {
	if err := h.prescriptions.Update(prescriptionFromEvent(payload)); err != nil {
		return fmt.Errorf("update prescription %s: %w", payload.PrescNumber, err)
	}

	h.log.Info("prescription updated", zap.String("presc_number", payload.PrescNumber))
	return nil
}

func (h *PrescriptionHandler) delete(number string) error {
	if err := h.prescriptions.Delete(number); err != nil {
		return fmt.Errorf("delete prescription %s: %w", number, err)
	}

	h.log.Info("prescription deleted", zap.String("presc_number", number))
	return nil
}

func prescriptionFromEvent(payload *event.PrescriptionPayload) *model.Prescription {
	return &model.Prescription{
		PrescNumber: payload.PrescNumber,
		MemUsername: payload.MemUsername,
		ProCode:     payload.ProCode,
		Dosage:      payload.Dosage,
		Status:      payload.Status,
	}
}
