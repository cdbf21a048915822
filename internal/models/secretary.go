package models

// Secretary is the staff record backing a SECRETARIA or ADMIN user. A user
// backs at most one secretary.
type Secretary struct {
	BaseModel
	UserID       string `gorm:"size:36;not null;uniqueIndex" json:"userId"`
	FullName     string `gorm:"size:100;not null;index" json:"fullName"`
	Registration string `gorm:"size:20;not null" json:"registration"`
	Email        string `gorm:"size:100;not null" json:"email"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
