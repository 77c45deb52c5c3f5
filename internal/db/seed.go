package db

import (
	"gorm.io/gorm"

	"github.com/contractorhub/contractor-directory/internal/models"
)

// SeedJobTypes fills the job type catalog on first boot. The catalog is
// read-only at runtime, so a non-empty table means there is nothing to do.
func SeedJobTypes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.JobType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	jobTypes := defaultJobTypes()
	return db.Create(&jobTypes).Error
}

func defaultJobTypes() []models.JobType {
	return []models.JobType{
		{Category: "Plumbing", JobName: "Pipe Repair", Description: "Fixing leaking or burst pipes"},
		{Category: "Plumbing", JobName: "Drain Cleaning", Description: "Clearing clogged drains and sewer lines"},
		{Category: "Plumbing", JobName: "Water Heater Installation", Description: "Installing and replacing water heaters"},
		{Category: "Electrical", JobName: "Wiring", Description: "New wiring and rewiring of homes"},
		{Category: "Electrical", JobName: "Panel Upgrade", Description: "Upgrading electrical service panels"},
		{Category: "Electrical", JobName: "Lighting Installation", Description: "Indoor and outdoor lighting fixtures"},
		{Category: "Carpentry", JobName: "Framing", Description: "Structural framing for new construction"},
		{Category: "Carpentry", JobName: "Cabinet Installation", Description: "Custom cabinets and built-ins"},
		{Category: "Carpentry", JobName: "Deck Building", Description: "Outdoor decks and porches"},
		{Category: "Painting", JobName: "Interior Painting", Description: "Walls, ceilings and trim"},
		{Category: "Painting", JobName: "Exterior Painting", Description: "Siding, doors and fences"},
		{Category: "Roofing", JobName: "Roof Repair", Description: "Patching leaks and replacing shingles"},
		{Category: "Roofing", JobName: "Roof Replacement", Description: "Full tear-off and re-roof"},
		{Category: "Landscaping", JobName: "Lawn Care", Description: "Mowing, fertilizing and aeration"},
		{Category: "Landscaping", JobName: "Tree Service", Description: "Trimming and removal of trees"},
		{Category: "HVAC", JobName: "AC Repair", Description: "Air conditioning diagnosis and repair"},
		{Category: "HVAC", JobName: "Furnace Installation", Description: "Installing and replacing furnaces"},
		{Category: "General", JobName: "Handyman Services", Description: "Small repairs around the house"},
		{Category: "General", JobName: "Home Remodeling", Description: "Kitchen, bathroom and basement remodels"},
	}
}
