// internal/models/document.go
package models

import "time"

type Document struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	DocumentType  string    `json:"documentType"`
	FileName      string    `json:"fileName"`
	FileSize      *int64    `json:"fileSize"`
	FileType      *string   `json:"fileType"`
	UploadDate    time.Time `json:"uploadDate"`
	IsRequired    bool      `json:"isRequired"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type NewDocument struct {
	ApplicationID int64   `json:"-" yaml:"-"`
	DocumentType  string  `json:"documentType" yaml:"documentType"`
	FileName      string  `json:"fileName" yaml:"fileName"`
	FileSize      *int64  `json:"fileSize" yaml:"fileSize"`
	FileType      *string `json:"fileType" yaml:"fileType"`
	IsRequired    *bool   `json:"isRequired" yaml:"isRequired"`
	Status        string  `json:"status" yaml:"status"`
}
