package authority

import "github.com/authdesk/authdesk/internal/db/models"

const (
	// DefaultPageSize is used when a list request carries no page_size.
	DefaultPageSize = 25
	// MaxPageSize caps page_size.
	MaxPageSize = 100
)

// CreateInput is the payload of the create form.
type CreateInput struct {
	FirstName       string `json:"first_name"        form:"first_name"        validate:"required,max=255"`
	LastName        string `json:"last_name"         form:"last_name"         validate:"required,max=255"`
	PhoneNumber     string `json:"phone_number"      form:"phone_number"      validate:"required,max=255"`
	Email           string `json:"email"             form:"email"             validate:"required,email,max=255"`
	Password        string `json:"password"          form:"password"          validate:"required,min=6"`
	AuthorityTypeID uint64 `json:"authority_type_id" form:"authority_type_id" validate:"required"`
	// Type is the legacy name of AuthorityTypeID, used when the latter is empty.
	Type uint64 `json:"type,omitempty" form:"type" validate:"-"`
}

func (in *CreateInput) normalize() {
	if in.AuthorityTypeID == 0 {
		in.AuthorityTypeID = in.Type
	}
}

// UpdateInput holds the optional fields of an update. A nil field is left unchanged.
type UpdateInput struct {
	FirstName       *string `json:"first_name"        form:"first_name"        validate:"omitnil,min=1,max=255"`
	LastName        *string `json:"last_name"         form:"last_name"         validate:"omitnil,min=1,max=255"`
	UserID          *uint64 `json:"user_id"           form:"user_id"           validate:"omitnil,gt=0"`
	AuthorityTypeID *uint64 `json:"authority_type_id" form:"authority_type_id" validate:"omitnil,gt=0"`
	// PhoneNumber is written to the paired user.
	PhoneNumber *string `json:"phone_number" form:"phone_number" validate:"omitnil,max=255"`
}

// BulkDeleteInput lists the authorities to remove in one transaction.
type BulkDeleteInput struct {
	IDs []uint64 `json:"ids" validate:"required,min=1,unique,dive,gt=0"`
}

// ListParams are the query parameters of the list endpoint.
type ListParams struct {
	Page     int    `json:"page"      query:"page"      validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=100"`
	Search   string `json:"search"    query:"search"    validate:"omitempty,max=255"`
	Sort     string `json:"sort"      query:"sort"      validate:"omitempty,oneof=id first_name last_name type created_at"`
	Order    string `json:"order"     query:"order"     validate:"omitempty,oneof=asc desc ASC DESC"`
	Type     string `json:"type"      query:"type"      validate:"omitempty,max=100"`
}

func (p *ListParams) normalize() {
	if p.Page == 0 {
		p.Page = 1
	}

	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}

	if p.Sort == "" {
		p.Sort = "id"
	}

	if p.Order == "" {
		p.Order = "asc"
	}
}

// Page is one page of a list result.
type Page struct {
	Items      []models.Authority `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// Form is the resource behind the create and edit forms.
type Form struct {
	ID              uint64                 `json:"id,omitempty"`
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	PhoneNumber     string                 `json:"phone_number"`
	Email           string                 `json:"email"`
	AuthorityTypeID uint64                 `json:"authority_type_id,omitempty"`
	Types           []models.AuthorityType `json:"types"`
}
