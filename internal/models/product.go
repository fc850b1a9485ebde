package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one deposit/savings listing from the finlife disclosure API.
type Product struct {
	ID               uint   `gorm:"primaryKey" json:"-"`
	Category         string `json:"category"`
	DisclosureMonth  string `json:"dcls_month"`
	FinCoNo          string `json:"fin_co_no"`
	CompanyName      string `json:"kor_co_nm"`
	ProductCode      string `json:"fin_prdt_cd"`
	ProductName      string `json:"fin_prdt_nm"`
	JoinWay          string `json:"join_way"`
	MaturityInterest string `json:"mtrt_int"`
	SpecialCondition string `json:"spcl_cnd"`
	JoinDeny         string `json:"join_deny"`
	JoinMember       string `json:"join_member"`
	EtcNote          string `json:"etc_note"`
	MaxLimit         int64  `json:"max_limit"`

	Options []ProductOption `json:"options"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ProductOption is one term/rate row from the listing's optionList.
type ProductOption struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	ProductID    uint            `json:"-"`
	RateType     string          `json:"intr_rate_type"`
	RateTypeName string          `json:"intr_rate_type_nm"`
	ReserveType  string          `json:"rsrv_type_nm,omitempty"`
	SaveTerm     int             `json:"save_trm"`
	Rate         decimal.Decimal `gorm:"type:numeric(6,2)" json:"intr_rate"`
	PreferRate   decimal.Decimal `gorm:"type:numeric(6,2)" json:"intr_rate2"`
	CreatedAt    time.Time       `json:"-"`
	UpdatedAt    time.Time       `json:"-"`
}
