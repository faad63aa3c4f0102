package models

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Dataset is the full content of one store build, rows in id order.
type Dataset struct {
	Orders  []Order
	Details []OrderDetail
	Units   []OrderDetailUnit
}

// Digest fingerprints every row of the dataset. Two datasets with the same
// digest are row-for-row identical.
func (d *Dataset) Digest() string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only fails for keys longer than 64 bytes
		panic(err)
	}
	for _, o := range d.Orders {
		fmt.Fprintf(h, "order|%d|%s|%t|%s|%s\n", o.ID, o.CreatedOnUTC, o.IsCancelled, o.Type, o.CustomPartnerID)
	}
	for _, od := range d.Details {
		fmt.Fprintf(h, "detail|%d|%d|%t|%t|%t\n", od.ID, od.OrderID, od.IsCancelled, od.IsMugPrint, od.IsStickerPrint)
	}
	for _, u := range d.Units {
		fmt.Fprintf(h, "unit|%d|%d|%t\n", u.ID, u.OrderDetailID, u.IsCancelled)
	}
	return hex.EncodeToString(h.Sum(nil))
}
