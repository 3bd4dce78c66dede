// Package authority manages the paired lifecycle of Authority and User rows.
//
// Every write runs inside one gorm transaction: a User is created, updated and
// deleted together with its Authority or not at all.
package authority

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
	"github.com/authdesk/authdesk/internal/events"
	"github.com/authdesk/authdesk/internal/validation"
)

const (
	idQueryPattern   = "id = ?"
	typeJoin         = "JOIN authority_types ON authority_types.id = authorities.authority_type_id"
	typeSelect       = "authorities.*, authority_types.name AS type"
	entityAuthority  = "authority"
	entityPairedUser = "paired_user"
	entityType       = "authority_type"
)

// sortColumns whitelists the sortable columns of List.
var sortColumns = map[string]string{
	"id":         "authorities.id",
	"first_name": "authorities.first_name",
	"last_name":  "authorities.last_name",
	"type":       "authority_types.name",
	"created_at": "authorities.created_at",
}

// Manager implements the authority lifecycle.
type Manager struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewManager returns a Manager. A nil publisher discards lifecycle events.
func NewManager(db *gorm.DB, publisher events.Publisher) *Manager {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Manager{db: db, publisher: publisher}
}

// Create validates in and creates the User and the Authority in one transaction.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.Authority, error) {
	in.normalize()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var created models.Authority

	err = m.transaction(ctx, func(tx *gorm.DB) error {
		var authorityType models.AuthorityType
		if err := tx.First(&authorityType, in.AuthorityTypeID).Error; err != nil {
			return notFoundOr(err, entityType)
		}

		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&taken).Error; err != nil {
			return storeErr(err)
		}

		if taken > 0 {
			return apperr.InvalidField("email", "unique")
		}

		user := models.User{
			Email:       in.Email,
			Name:        in.FirstName + " " + in.LastName,
			PhoneNumber: in.PhoneNumber,
			Password:    hash,
			Type:        models.UserTypeAuthority,
		}
		// a concurrent create may take the email between the check and the insert
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.InvalidField("email", "unique")
			}

			return storeErr(err)
		}

		created = models.Authority{
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			UserID:          user.ID,
			AuthorityTypeID: authorityType.ID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return storeErr(err)
		}

		created.Type = authorityType.Name
		created.User = &user

		return nil
	})
	if err != nil {
		return nil, err
	}

	m.publish(ctx, events.AuthorityCreated, &created)

	return &created, nil
}

// Read returns the authority with its type name and paired user.
func (m *Manager) Read(ctx context.Context, id uint64) (*models.Authority, error) {
	return find(m.db.WithContext(ctx), id)
}

// List returns one page of authorities.
func (m *Manager) List(ctx context.Context, params ListParams) (*Page, error) {
	params.normalize()

	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	db := m.db.WithContext(ctx)

	var total int64
	if err := filtered(db, params).Count(&total).Error; err != nil {
		return nil, storeErr(err)
	}

	order := sortColumns[params.Sort] + " " + strings.ToUpper(params.Order)
	if params.Sort != "id" {
		order += ", authorities.id ASC"
	}

	items := make([]models.Authority, 0, params.PageSize)

	err := filtered(db, params).
		Select(typeSelect).
		Order(order).
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, storeErr(err)
	}

	return &Page{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(params.PageSize))),
	}, nil
}

// Update applies in to the authority and its paired user in one transaction.
func (m *Manager) Update(ctx context.Context, id uint64, in UpdateInput) (*models.Authority, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.Authority

	err := m.transaction(ctx, func(tx *gorm.DB) error {
		var current models.Authority
		if err := tx.First(&current, id).Error; err != nil {
			return notFoundOr(err, entityAuthority)
		}

		changes := map[string]any{}

		if in.FirstName != nil {
			changes["first_name"] = *in.FirstName
		}

		if in.LastName != nil {
			changes["last_name"] = *in.LastName
		}

		pairedUserID := current.UserID

		if in.UserID != nil && *in.UserID != current.UserID {
			if err := checkUserAvailable(tx, *in.UserID, current.ID); err != nil {
				return err
			}

			changes["user_id"] = *in.UserID
			pairedUserID = *in.UserID
		}

		if in.AuthorityTypeID != nil && *in.AuthorityTypeID != current.AuthorityTypeID {
			var count int64
			if err := tx.Model(&models.AuthorityType{}).Where(idQueryPattern, *in.AuthorityTypeID).Count(&count).Error; err != nil {
				return storeErr(err)
			}

			if count == 0 {
				return apperr.InvalidField("authority_type_id", "exists")
			}

			changes["authority_type_id"] = *in.AuthorityTypeID
		}

		if len(changes) > 0 {
			if err := tx.Model(&current).Updates(changes).Error; err != nil {
				return storeErr(err)
			}
		}

		// the released user has no authority left and goes with it
		if pairedUserID != current.UserID {
			if err := deleteUser(tx, current.UserID); err != nil {
				return err
			}
		}

		if in.PhoneNumber != nil {
			res := tx.Model(&models.User{}).Where(idQueryPattern, pairedUserID).Update("phone_number", *in.PhoneNumber)
			if res.Error != nil {
				return storeErr(res.Error)
			}

			if res.RowsAffected == 0 {
				return apperr.NotFound(entityPairedUser)
			}
		}

		var err error
		updated, err = find(tx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	m.publish(ctx, events.AuthorityUpdated, updated)

	return updated, nil
}

// Delete removes the authority and its paired user in one transaction.
func (m *Manager) Delete(ctx context.Context, id uint64) error {
	var deleted *models.Authority

	err := m.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = deletePair(tx, id)

		return err
	})
	if err != nil {
		return err
	}

	m.publish(ctx, events.AuthorityDeleted, deleted)

	return nil
}

// BulkDelete removes every listed authority with its paired user in one
// transaction. The first failure aborts the batch and is returned as a
// *BatchError; no row is removed in that case.
func (m *Manager) BulkDelete(ctx context.Context, in BulkDeleteInput) (int, error) {
	if err := validation.Struct(in); err != nil {
		return 0, err
	}

	deleted := make([]*models.Authority, 0, len(in.IDs))

	err := m.transaction(ctx, func(tx *gorm.DB) error {
		for _, id := range in.IDs {
			a, err := deletePair(tx, id)
			if err != nil {
				return &BatchError{ID: id, Err: err}
			}

			deleted = append(deleted, a)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, a := range deleted {
		m.publish(ctx, events.AuthorityDeleted, a)
	}

	return len(deleted), nil
}

// Types returns every authority type ordered by name.
func (m *Manager) Types(ctx context.Context) ([]models.AuthorityType, error) {
	var types []models.AuthorityType
	if err := m.db.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, storeErr(err)
	}

	return types, nil
}

// BlankForm returns the empty create form with the type options.
func (m *Manager) BlankForm(ctx context.Context) (*Form, error) {
	types, err := m.Types(ctx)
	if err != nil {
		return nil, err
	}

	return &Form{Types: types}, nil
}

// Form returns the edit form of an authority, prefilled from it and its user.
func (m *Manager) Form(ctx context.Context, id uint64) (*Form, error) {
	a, err := m.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	types, err := m.Types(ctx)
	if err != nil {
		return nil, err
	}

	form := &Form{
		ID:              a.ID,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		AuthorityTypeID: a.AuthorityTypeID,
		Types:           types,
	}

	if a.User != nil {
		form.PhoneNumber = a.User.PhoneNumber
		form.Email = a.User.Email
	}

	return form, nil
}

// transaction runs fn in a transaction. Errors from fn are returned as they are,
// begin and commit failures become Transaction or Timeout errors.
func (m *Manager) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := m.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Timeout(err)
	}

	log.Error().Err(err).Msg("authority transaction failed")

	return apperr.Transaction(err)
}

func (m *Manager) publish(ctx context.Context, routingKey string, a *models.Authority) {
	evt := events.AuthorityEvent{
		AuthorityID: a.ID,
		UserID:      a.UserID,
		Type:        a.Type,
		OccurredAt:  time.Now().UTC(),
	}

	if err := m.publisher.Publish(context.WithoutCancel(ctx), routingKey, evt); err != nil {
		log.Warn().Err(err).Str("event", routingKey).Uint64("authority_id", a.ID).Msg("failed to publish authority event")
	}
}

// find loads an authority joined with its type name and preloads the paired user.
func find(tx *gorm.DB, id uint64) (*models.Authority, error) {
	var a models.Authority

	err := tx.Model(&models.Authority{}).
		Select(typeSelect).
		Joins(typeJoin).
		Preload("User").
		Where("authorities.id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, notFoundOr(err, entityAuthority)
	}

	return &a, nil
}

func filtered(tx *gorm.DB, params ListParams) *gorm.DB {
	q := tx.Model(&models.Authority{}).Joins(typeJoin)

	if search := strings.TrimSpace(params.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(authorities.first_name) LIKE ? OR LOWER(authorities.last_name) LIKE ?)", like, like)
	}

	if params.Type != "" {
		q = q.Where("authority_types.name = ?", params.Type)
	}

	return q
}

// checkUserAvailable ensures userID is an authority user that backs no
// authority other than owner.
func checkUserAvailable(tx *gorm.DB, userID, owner uint64) error {
	var user models.User
	if err := tx.Select("id", "type").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.InvalidField("user_id", "exists")
		}

		return storeErr(err)
	}

	if user.Type != models.UserTypeAuthority {
		return apperr.InvalidField("user_id", "authority_user")
	}

	var paired int64
	if err := tx.Model(&models.Authority{}).Where("user_id = ? AND id <> ?", userID, owner).Count(&paired).Error; err != nil {
		return storeErr(err)
	}

	if paired > 0 {
		return apperr.InvalidField("user_id", "unique")
	}

	return nil
}

// deletePair removes the participations, the authority and the user of one pair.
func deletePair(tx *gorm.DB, id uint64) (*models.Authority, error) {
	var a models.Authority
	if err := tx.First(&a, id).Error; err != nil {
		return nil, notFoundOr(err, entityAuthority)
	}

	var user models.User
	if err := tx.First(&user, a.UserID).Error; err != nil {
		return nil, notFoundOr(err, entityPairedUser)
	}

	if err := tx.Delete(&a).Error; err != nil {
		return nil, storeErr(err)
	}

	if err := deleteUser(tx, user.ID); err != nil {
		return nil, err
	}

	return &a, nil
}

// deleteUser removes a user no authority references anymore, with its
// chat room participations.
func deleteUser(tx *gorm.DB, userID uint64) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.ChatRoomParticipant{}).Error; err != nil {
		return storeErr(err)
	}

	if err := tx.Delete(&models.User{}, userID).Error; err != nil {
		return storeErr(err)
	}

	return nil
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}

	return storeErr(err)
}

func storeErr(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	if err = apperr.FromContext(err); apperr.Is(err, apperr.KindTimeout) {
		return err
	}

	return apperr.Internal(err)
}
