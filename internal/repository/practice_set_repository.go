package repository

import (
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"gorm.io/gorm"
)

type PracticeSetRepository interface {
	Upsert(set *model.PracticeSet) error
	FindByIDWithTree(id uint) (*model.PracticeSet, error)
	FindAllWithSectionCount(publishedOnly bool) ([]struct {
		model.PracticeSet
		SectionCount int
	}, error)
	Delete(id uint) error
}

type practiceSetRepository struct {
	db *gorm.DB
}

func NewPracticeSetRepository(db *gorm.DB) PracticeSetRepository {
	return &practiceSetRepository{db: db}
}

// Upsert creates the set when ID is zero, otherwise replaces the stored
// content tree wholesale. The editor always sends the full tree, so partial
// merges are not attempted.
func (r *practiceSetRepository) Upsert(set *model.PracticeSet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if set.ID != 0 {
			var existing model.PracticeSet
			if err := tx.First(&existing, set.ID).Error; err != nil {
				return err
			}
			// Drop the old tree; cascading constraints take the parts,
			// segments and questions with each section.
			if err := tx.Where("practice_set_id = ?", set.ID).Delete(&model.Section{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(set).Error
	})
}

func (r *practiceSetRepository) FindByIDWithTree(id uint) (*model.PracticeSet, error) {
	var set model.PracticeSet
	err := r.db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.order_in_set ASC")
		}).
		Preload("Sections.Parts", func(db *gorm.DB) *gorm.DB {
			return db.Order("parts.order_in_section ASC")
		}).
		Preload("Sections.Parts.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_index ASC")
		}).
		Preload("Sections.Parts.Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("segments.order_in_part ASC")
		}).
		Preload("Sections.Parts.Segments.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_index ASC")
		}).
		First(&set, id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *practiceSetRepository) FindAllWithSectionCount(publishedOnly bool) ([]struct {
	model.PracticeSet
	SectionCount int
}, error) {
	var results []struct {
		model.PracticeSet
		SectionCount int
	}
	query := r.db.Model(&model.PracticeSet{}).
		Select("practice_sets.*, (SELECT COUNT(*) FROM sections WHERE sections.practice_set_id = practice_sets.id AND sections.deleted_at IS NULL) as section_count").
		Where("practice_sets.deleted_at IS NULL").
		Order("practice_sets.created_at DESC")
	if publishedOnly {
		query = query.Where("practice_sets.is_published = ?", true)
	}
	err := query.Scan(&results).Error
	return results, err
}

func (r *practiceSetRepository) Delete(id uint) error {
	return r.db.Delete(&model.PracticeSet{}, id).Error
}
