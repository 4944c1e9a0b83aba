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
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/utils"
)

const generatedPasswordLength = 12

// MemberHandler applies member events against the member store.
type MemberHandler struct {
	members repository.MemberRepository
	log     *zap.Logger
}

// NewMemberHandler creates a member event handler.
func NewMemberHandler(members repository.MemberRepository) *MemberHandler {
	return &MemberHandler{members: members, log: logger.GetLogger()}
}

// Handle dispatches a member event by type.
func (h *MemberHandler) Handle(ctx context.Context, p *event.Payload) error {
	var payload event.MemberPayload
	if err := json.Unmarshal(p.Data, &payload); err != nil {
		return fmt.Errorf("malformed member payload: %w", err)
	}
	if payload.MemUsername == "" {
		return fmt.Errorf("member event missing mem_username")
	}

	switch event.MemberEventType(p.EventType) {
	case event.MemberAdd:
		return h.add(&payload)
	case event.MemberUpdate:
		return h.update(&payload)
	case event.MemberDelete:
		return h.delete(payload.MemUsername)
	default:
		return fmt.Errorf("unknown member event type %q", p.EventType)
	}
}

func (h *MemberHandler) add(payload *event.MemberPayload) error {
	existing, err := h.members.FindByUsername(payload.MemUsername)
	if err != nil {
		return fmt.Errorf("check member %s: %w", payload.MemUsername, err)
	}
	if existing != nil {
		h.log.Warn("member already exists, skipping add",
			zap.String("mem_username", payload.MemUsername))
		return nil
	}

	member := memberFromEvent(payload)
	if member.MemPassword == "" {
		pw, err := utils.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return fmt.Errorf("generate member password: %w", err)
		}
		member.MemPassword = pw
	}

	if err := h.members.Create(member); err != nil {
		if repository.IsDuplicateKey(err) {
			h.log.Warn("member insert hit duplicate key, skipping",
				zap.String("mem_username", payload.MemUsername))
			return nil
		}
		return fmt.Errorf("create member %s: %w", payload.MemUsername, err)
	}

	h.log.Info("member created", zap.String("mem_username", member.MemUsername))
	return nil
}

func (h *MemberHandler) update(payload *event.MemberPayload) error {
	existing, err := h.members.FindByUsername(payload.MemUsername)
	if err != nil {
		return fmt.Errorf("resolve member %s: %w", payload.MemUsername, err)
	}
	if existing == nil {
		return fmt.Errorf("member %s not found for update: %w", payload.MemUsername, repository.ErrNotFound)
	}

	member := memberFromEvent(payload)
	member.MemID = existing.MemID
	if err := h.members.Update(member); err != nil {
		return fmt.Errorf("update member %s: %w", payload.MemUsername, err)
	}

	h.log.Info("member updated", zap.String("mem_username", payload.MemUsername))
	return nil
}

func (h *MemberHandler) delete(username string) error {
	if err := h.members.Delete(username); err != nil {
		return fmt.Errorf("delete member %s: %w", username, err)
	}

	h.log.Info("member deleted", zap.String("mem_username", username))
	return nil
}

func memberFromEvent(payload *event.MemberPayload) *model.Member {
	return &model.Member{
		MemUsername: payload.MemUsername,
		MemPassword: payload.MemPassword,
		MemNameSite: payload.MemNameSite,
		MemLicense:  payload.MemLicense,
		MemType:     payload.MemType,
		MemProvince: payload.MemProvince,
		MemAddress:  payload.MemAddress,
		MemPhone:    payload.MemPhone,
	}
}
