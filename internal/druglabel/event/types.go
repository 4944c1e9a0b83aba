// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package event

import "encoding/json"

// Topic enumerates the topics the consumer understands. The router
// switches exhaustively over this set; unknown topics are rejected at
// parse time rather than silently ignored.
type Topic string

const (
	TopicProductEvents      Topic = "product-events"
	TopicMemberEvents       Topic = "member-events"
	TopicPrescriptionEvents Topic = "prescription-events"
	TopicPharmaEvents       Topic = "pharma-events"
	TopicDeadLetter         Topic = "dead-letter-queue"
)

// ParseTopic maps a raw topic name onto the closed Topic set.
func ParseTopic(name string) (Topic, bool) {
	switch t := Topic(name); t {
	case TopicProductEvents, TopicMemberEvents, TopicPrescriptionEvents,
		TopicPharmaEvents, TopicDeadLetter:
		return t, true
	default:
		return "", false
	}
}

// RetryTopic returns the per-domain retry topic for a source topic,
// e.g. "product-events" -> "product-events-retry".
func RetryTopic(t Topic) string {
	return string(t) + "-retry"
}

// ProductEventType enumerates product event kinds.
type ProductEventType string

const (
	ProductAddWithPharma    ProductEventType = "ADD_PRODUCT_WITH_PHARMA"
	ProductUpdateWithPharma ProductEventType = "UPDATE_PRODUCT_WITH_PHARMA"
	ProductDelete           ProductEventType = "DELETE"
	ProductStockUpdate      ProductEventType = "STOCK_UPDATE"
	ProductBulkStockUpdate  ProductEventType = "BULK_STOCK_UPDATE"
)

// MemberEventType enumerates member event kinds.
type MemberEventType string

const (
	MemberAdd    MemberEventType = "ADD_MEMBER"
	MemberUpdate MemberEventType = "UPDATE_MEMBER"
	MemberDelete MemberEventType = "DELETE"
)

// PrescriptionEventType enumerates prescription event kinds.
type PrescriptionEventType string

const (
	PrescriptionAdd    PrescriptionEventType = "ADD_PRESCRIPTION"
	PrescriptionUpdate PrescriptionEventType = "UPDATE_PRESCRIPTION"
	PrescriptionDelete PrescriptionEventType = "DELETE"
)

// PharmaEventType enumerates pharma label event kinds.
type PharmaEventType string

const (
	PharmaAdd    PharmaEventType = "ADD_PHARMA"
	PharmaUpdate PharmaEventType = "UPDATE_PHARMA"
	PharmaDelete PharmaEventType = "DELETE"
)

// ProductPayload is the data section of product events.
type ProductPayload struct {
	ProductID int64           `json:"productId,omitempty"`
	Product   *ProductData    `json:"product,omitempty"`
	Pharma    *PharmaData     `json:"pharma,omitempty"`
	Stock     *float64        `json:"stock,omitempty"`
	BatchID   string          `json:"batch_id,omitempty"`
	Items     json.RawMessage `json:"items,omitempty"`
}

// ProductData mirrors the product columns producers send.
type ProductData struct {
	ProCode        string  `json:"pro_code"`
	ProName        string  `json:"pro_name"`
	ProNameEng     string  `json:"pro_nameeng,omitempty"`
	ProGenericName string  `json:"pro_genericname,omitempty"`
	ProUnit        string  `json:"pro_unit1,omitempty"`
	ProPrice       float64 `json:"pro_price1,omitempty"`
	ProInStock     float64 `json:"pro_instock,omitempty"`
	ProBarcode     string  `json:"pro_barcode1,omitempty"`
}

// PharmaData mirrors the product_pharma columns (usage instructions
// printed on the drug label).
type PharmaData struct {
	PPProCode   string `json:"pp_procode,omitempty"`
	PPEatAmount string `json:"pp_eatamount,omitempty"`
	PPDayAmount string `json:"pp_daypamount,omitempty"`
	PPPrint     string `json:"pp_print,omitempty"`
}

// MemberPayload is the data section of member events. The natural key
// is the username.
type MemberPayload struct {
	MemberID    int64  `json:"memberId,omitempty"`
	MemUsername string `json:"mem_username"`
	MemPassword string `json:"mem_password,omitempty"`
	MemNameSite string `json:"mem_nameSite,omitempty"`
	MemLicense  string `json:"mem_license,omitempty"`
	MemType     int    `json:"mem_type,omitempty"`
	MemProvince string `json:"mem_province,omitempty"`
	MemAddress  string `json:"mem_address,omitempty"`
	MemPhone    string `json:"mem_phone,omitempty"`
}

// PrescriptionPayload is the data section of prescription events. The
// natural key is the prescription number.
type PrescriptionPayload struct {
	PrescriptionID int64  `json:"prescriptionId,omitempty"`
	PrescNumber    string `json:"presc_number"`
	MemUsername    string `json:"mem_username,omitempty"`
	ProCode        string `json:"pro_code,omitempty"`
	Dosage         string `json:"dosage,omitempty"`
	Status         string `json:"status,omitempty"`
}
