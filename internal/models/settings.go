package models

import "time"

// Settings holds the company profile and document preferences. A single row
// (ID 1) exists; the composition engine treats it as pass-through
// configuration for PDF rendering.
type Settings struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	CompanyName        string    `json:"company"`
	LegalName          string    `json:"legal_name"`
	CNPJ               string    `json:"cnpj"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	FooterText         string    `json:"footer"`
	PDFSavePath        string    `json:"pdf_path"`
	PDFCreateSubfolder bool      `json:"create_subfolder"`
	PDFAutoSave        bool      `json:"auto_save"`
	LogoPath           string    `json:"logo_path"`
	PaymentPix         bool      `json:"payment_pix"`
	PaymentCredit      bool      `json:"payment_credit"`
	PaymentDebit       bool      `json:"payment_debit"`
	PaymentCash        bool      `json:"payment_cash"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}
