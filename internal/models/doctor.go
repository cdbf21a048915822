package models

// Doctor is a MEDICO user's professional record.
type Doctor struct {
	BaseModel
	UserID    string `gorm:"size:36;not null;index" json:"userId"`
	Name      string `gorm:"size:255;not null;index" json:"name"`
	CRM       string `gorm:"column:crm;size:20;not null;uniqueIndex" json:"crm"`
	Specialty string `gorm:"size:255;not null" json:"specialty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
