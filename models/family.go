package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"github.com/shopspring/decimal"
)

type Family struct {
	ID                  int                `gorm:"primary_key" json:"id"`
	ResponsibleName     string             `gorm:"size:150;not null" json:"responsible_name" binding:"required"`
	CPF                 string             `gorm:"size:11;uniqueIndex" json:"cpf"`
	Phone               string             `gorm:"size:20" json:"phone"`
	Cep                 string             `gorm:"size:8" json:"cep"`
	Street              string             `gorm:"size:150" json:"street"`
	Number              string             `gorm:"size:20" json:"number"`
	Neighborhood        string             `gorm:"size:100" json:"neighborhood"`
	City                string             `gorm:"size:100" json:"city"`
	State               string             `gorm:"size:2" json:"state"`
	Income              decimal.Decimal    `gorm:"type:decimal(10,2)" json:"income"`
	VulnerabilityLevel  VulnerabilityLevel `gorm:"size:30;not null;default:'Sem vulnerabilidade'" json:"vulnerability_level"`
	DocumentationStatus string             `gorm:"size:50" json:"documentation_status"`
	Notes               string             `gorm:"type:text" json:"notes"`
	IsActive            bool               `gorm:"not null;default:true" json:"is_active"`
	Children            []Child            `json:"children"`
	Dependents          []Dependent        `json:"dependents"`
	CreatedAt           time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type Child struct {
	ID        int        `gorm:"primary_key" json:"id"`
	FamilyId  int        `gorm:"index;not null" json:"family_id"`
	Name      string     `gorm:"size:150;not null" json:"name" binding:"required"`
	BirthDate *time.Time `json:"birth_date"`
	InSchool  bool       `json:"in_school"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type Dependent struct {
	ID           int        `gorm:"primary_key" json:"id"`
	FamilyId     int        `gorm:"index;not null" json:"family_id"`
	Name         string     `gorm:"size:150;not null" json:"name" binding:"required"`
	Relationship string     `gorm:"size:50" json:"relationship"`
	BirthDate    *time.Time `json:"birth_date"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type NewFamily struct {
	ResponsibleName     string             `json:"responsible_name" binding:"required"`
	CPF                 string             `json:"cpf"`
	Phone               string             `json:"phone"`
	Cep                 string             `json:"cep"`
	Street              string             `json:"street"`
	Number              string             `json:"number"`
	Neighborhood        string             `json:"neighborhood"`
	City                string             `json:"city"`
	State               string             `json:"state"`
	Income              decimal.Decimal    `json:"income"`
	VulnerabilityLevel  VulnerabilityLevel `json:"vulnerability_level"`
	DocumentationStatus string             `json:"documentation_status"`
	Notes               string             `json:"notes"`
	Children            []Child            `json:"children"`
	Dependents          []Dependent        `json:"dependents"`
}

func validateFamilyInput(ctx context.Context, input *NewFamily, id int) error {
	if input.VulnerabilityLevel == "" {
		input.VulnerabilityLevel = VulnerabilityNone
	}
	if _, ok := VulnerabilityWeights[input.VulnerabilityLevel]; !ok {
		return errors.New("invalid vulnerability level")
	}
	if input.CPF != "" {
		if err := utils.ValidateCPF(input.CPF); err != nil {
			return err
		}
		input.CPF = utils.OnlyDigits(input.CPF)
		if err := utils.ValidateUnique[Family](ctx, "cpf", input.CPF, id); err != nil {
			return err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	if input.Cep != "" {
		input.Cep = utils.OnlyDigits(input.Cep)
		if len(input.Cep) != 8 {
			return errors.New("cep must have 8 digits")
		}
	}
	if input.State != "" {
		input.State = strings.ToUpper(strings.TrimSpace(input.State))
		if len(input.State) != 2 {
			return errors.New("state must be a 2-letter abbreviation")
		}
	}
	if input.Income.IsNegative() {
		return errors.New("income cannot be negative")
	}
	return nil
}

func CreateFamily(ctx context.Context, input NewFamily) (*Family, error) {
	db := config.GetDB()

	if err := validateFamilyInput(ctx, &input, 0); err != nil {
		return nil, err
	}

	family := Family{
		ResponsibleName:     strings.TrimSpace(input.ResponsibleName),
		CPF:                 input.CPF,
		Phone:               input.Phone,
		Cep:                 input.Cep,
		Street:              strings.TrimSpace(input.Street),
		Number:              strings.TrimSpace(input.Number),
		Neighborhood:        strings.TrimSpace(input.Neighborhood),
		City:                strings.TrimSpace(input.City),
		State:               input.State,
		Income:              input.Income,
		VulnerabilityLevel:  input.VulnerabilityLevel,
		DocumentationStatus: input.DocumentationStatus,
		Notes:               input.Notes,
		IsActive:            true,
		Children:            input.Children,
		Dependents:          input.Dependents,
	}
	if err := db.WithContext(ctx).Create(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func GetFamily(ctx context.Context, id int) (*Family, error) {
	return utils.FetchModel[Family](ctx, id, "Children", "Dependents")
}

func UpdateFamily(ctx context.Context, id int, input NewFamily) (*Family, error) {
	db := config.GetDB()

	family, err := utils.FetchModel[Family](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateFamilyInput(ctx, &input, id); err != nil {
		return nil, err
	}

	family.ResponsibleName = strings.TrimSpace(input.ResponsibleName)
	family.CPF = input.CPF
	family.Phone = input.Phone
	family.Cep = input.Cep
	family.Street = strings.TrimSpace(input.Street)
	family.Number = strings.TrimSpace(input.Number)
	family.Neighborhood = strings.TrimSpace(input.Neighborhood)
	family.City = strings.TrimSpace(input.City)
	family.State = input.State
	family.Income = input.Income
	family.VulnerabilityLevel = input.VulnerabilityLevel
	family.DocumentationStatus = input.DocumentationStatus
	family.Notes = input.Notes

	if err := db.WithContext(ctx).Save(family).Error; err != nil {
		return nil, err
	}
	return family, nil
}

// DeactivateFamily soft-disables a family; history and evidence stay intact.
func DeactivateFamily(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Family{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

type FamilyFilter struct {
	Search       string
	Neighborhood string
	OnlyActive   bool
	Limit        int
	Offset       int
}

func ListFamilies(ctx context.Context, filter FamilyFilter) ([]Family, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Family{}).Preload("Children").Preload("Dependents")
	if filter.OnlyActive {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if filter.Neighborhood != "" {
		dbCtx = dbCtx.Where("neighborhood = ?", filter.Neighborhood)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		dbCtx = dbCtx.Where("responsible_name LIKE ? OR cpf LIKE ?", like, utils.OnlyDigits(filter.Search)+"%")
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var families []Family
	err := dbCtx.Order("responsible_name ASC").Limit(limit).Offset(filter.Offset).Find(&families).Error
	return families, err
}

func ListActiveFamilies(ctx context.Context) ([]Family, error) {
	db := config.GetDB()
	var families []Family
	err := db.WithContext(ctx).Where("is_active = ?", true).Order("responsible_name ASC").Find(&families).Error
	return families, err
}

func CountActiveFamilies(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Family](ctx, "is_active = ?", true)
}

// CountFamiliesByVulnerability groups active families for snapshots.
func CountFamiliesByVulnerability(ctx context.Context) (map[string]int, error) {
	db := config.GetDB()
	type row struct {
		VulnerabilityLevel string
		Total              int
	}
	var rows []row
	err := db.WithContext(ctx).Model(&Family{}).
		Select("vulnerability_level, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("vulnerability_level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.VulnerabilityLevel] = r.Total
	}
	return out, nil
}

// CountFamiliesByNeighborhood groups active families; blanks collapse into
// "Não informado".
func CountFamiliesByNeighborhood(ctx context.Context) (map[string]int, error) {
	db := config.GetDB()
	type row struct {
		Neighborhood string
		Total        int
	}
	var rows []row
	err := db.WithContext(ctx).Model(&Family{}).
		Select("neighborhood, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("neighborhood").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.Neighborhood)
		if name == "" {
			name = "Não informado"
		}
		out[name] += r.Total
	}
	return out, nil
}

func GetFamiliesByIds(ctx context.Context, ids []int) ([]Family, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := config.GetDB()
	var families []Family
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&families).Error
	return families, err
}

// CountChildrenOfFamilies counts children across a family set.
func CountChildrenOfFamilies(ctx context.Context, familyIds []int) (int64, error) {
	if len(familyIds) == 0 {
		return 0, nil
	}
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Child{}).Where("family_id IN ?", familyIds).Count(&count).Error
	return count, err
}

// CountFamiliesPendingDocs counts active families whose documentation status
// is blank or whitespace only.
func CountFamiliesPendingDocs(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Family](ctx,
		"is_active = ? AND TRIM(COALESCE(documentation_status, '')) = ''", true)
}

func familyExists(ctx context.Context, id int) error {
	return utils.ValidateResourceId[Family](ctx, id)
}
