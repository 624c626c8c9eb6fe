package contacts

import (
	"errors"

	"lead-gateway/internal/dispatch"
	"lead-gateway/internal/models"
	pkgmodels "lead-gateway/pkg/models"

	"gorm.io/gorm"
)

// Store writes normalized contacts into lists and keeps each list's
// contact_count equal to its row count via atomic increments.
type Store struct {
	db                 *gorm.DB
	defaultCountryCode string
}

func NewStore(db *gorm.DB, defaultCountryCode string) *Store {
	return &Store{db: db, defaultCountryCode: defaultCountryCode}
}

// AddContact upserts a contact into the target list. Duplicates are detected
// on (email, list_id), or (phone, list_id) when the contact has no email; a
// duplicate returns the existing record without inserting. The complete raw
// payload is stored alongside the canonical fields.
func (s *Store) AddContact(listID string, contact pkgmodels.Contact, rawPayload []byte) (*models.ListContact, error) {
	var list models.List
	if err := s.db.First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dispatch.ErrListNotFound
		}
		return nil, err
	}

	phone := pkgmodels.NormalizePhone(contact.PhoneNumber, s.defaultCountryCode)

	var existing models.ListContact
	var err error
	switch {
	case contact.Email != "":
		err = s.db.First(&existing, "list_id = ? AND email = ?", listID, contact.Email).Error
	case phone != "":
		err = s.db.First(&existing, "list_id = ? AND phone = ?", listID, phone).Error
	default:
		err = gorm.ErrRecordNotFound
	}
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := models.ListContact{
		ListID:       listID,
		Email:        contact.Email,
		FullName:     contact.FullName,
		Phone:        phone,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		Company:      contact.Company,
		CustomFields: string(rawPayload),
	}

	// Insert and counter increment commit together. The increment is a single
	// UPDATE expression, not read-then-write, so concurrent appends to the
	// same list cannot under-count.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&models.List{}).
			Where("id = ?", listID).
			UpdateColumn("contact_count", gorm.Expr("contact_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// ListContacts returns a list's contacts, newest first.
func (s *Store) ListContacts(listID string) ([]models.ListContact, error) {
	var records []models.ListContact
	err := s.db.Order("created_at DESC").Find(&records, "list_id = ?", listID).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
