package models

// Patient is a person attended by the clinic, identified by CPF.
type Patient struct {
	BaseModel
	Name      string  `gorm:"size:100;not null;index" json:"name"`
	BirthDate Date    `gorm:"not null" json:"birthDate"`
	CPF       string  `gorm:"column:cpf;size:14;not null;uniqueIndex" json:"cpf"`
	Phone     *string `gorm:"size:20" json:"phone"`
	Email     *string `gorm:"size:100" json:"email"`
}
