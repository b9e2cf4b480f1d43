package domain

import "time"

// DefaultOverrideSlot is the fixed name of the single override slot
const DefaultOverrideSlot = "emoji_db_csv"

// DatasetOverride 사용자가 가져온 CSV 데이터 (슬롯당 한 행)
type DatasetOverride struct {
	Slot      string    `gorm:"column:slot;primaryKey;size:64" json:"slot"`
	Content   string    `gorm:"column:content;type:longtext;not null" json:"-"`
	Size      int       `gorm:"column:size;not null" json:"size"`
	Checksum  string    `gorm:"column:checksum;size:64" json:"checksum"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name for dataset overrides
func (DatasetOverride) TableName() string {
	return "dataset_overrides"
}

// DatasetImportRequest JSON 형식의 가져오기 요청
type DatasetImportRequest struct {
	CSV string `json:"csv"`
}

// RowIssueResponse 건너뛴 행 정보
type RowIssueResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// DatasetValidationResponse 검증(드라이런) 결과
type DatasetValidationResponse struct {
	Valid   bool               `json:"valid"`
	Records int                `json:"records"`
	Skipped []RowIssueResponse `json:"skipped"`
	Preview []EmojiSummary     `json:"preview"`
	Reason  string             `json:"reason,omitempty"`
}
