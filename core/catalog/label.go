package catalog

import (
	"context"

	"gorm.io/gorm"

	"audiolab/apperr"
	"audiolab/model"
)

// CreateLabel registers a new classification label.
func (s *Service) CreateLabel(ctx context.Context, uid, description string) (*model.Label, error) {
	if uid == "" {
		uid = newUID()
	}

	label := &model.Label{UID: uid, Description: description}
	if err := s.labels.Create(ctx, label); err != nil {
		return nil, convertStoreErr(err)
	}
	return label, nil
}

// GetLabel returns the label with the given uid.
func (s *Service) GetLabel(ctx context.Context, uid string) (*model.Label, error) {
	label, err := s.labels.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, apperr.NotFoundf("label %s not found", uid)
	}
	return label, nil
}

// ListLabels returns the labels matching the given filter bag.
func (s *Service) ListLabels(ctx context.Context, params LabelListParams) ([]*model.Label, error) {
	filters, err := appendDateRange(nil, "created_at", params.CreatedFrom, params.CreatedTo)
	if err != nil {
		return nil, err
	}
	return s.labels.List(ctx, filters)
}

// DeleteLabel removes a label, detaching it from every record that
// references it. The seeded labels are protected.
func (s *Service) DeleteLabel(ctx context.Context, uid string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		labels := s.labels.WithTx(tx)

		label, err := labels.GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		if label == nil {
			return apperr.NotFoundf("label %s not found", uid)
		}
		if label.Seeded() {
			return apperr.New(apperr.Consistency, "label %s is protected", uid)
		}

		if err := s.records.WithTx(tx).DetachLabel(ctx, uid); err != nil {
			return err
		}
		return labels.Delete(ctx, uid)
	})
	return convertStoreErr(err)
}
