package parser

// The upstream extraction model emits different key names depending on
// the receipt layout it was trained on. Each alias list below is a
// priority-ordered table of the field-name variants observed in real
// extraction output, and the order matters: the first key present in a
// record wins. The lists must not be reordered or trimmed without
// re-checking against captured extractions.

// headerKeys are the top-level containers that may hold receipt
// metadata (merchant, date, ...).
var headerKeys = []string{
	"header",
	"receipt_info",
	"merchant",
	"restaurant",
	"invoice",
	"bill",
	"receipt",
	"restaurant_info",
	"invoice_info",
	"bill_info",
	"credit_card",
	"payment",
	"transaction",
	"order",
	"receipt_header",
	"creditcardprice",
	"date",
}

// itemListKeys are the top-level containers that may hold the line items.
var itemListKeys = []string{"menu", "items", "products", "dishes"}

// nameKeys identify an item's description. Includes localized variants
// ("nama" is Indonesian) seen in real receipts.
var nameKeys = []string{
	"nm", "name", "item", "description", "dish",
	"product_name", "product",
	"menu item", "menu_item", "menu_item_name", "menu item name",
	"item_name", "item name", "label", "nama",
}

// quantityKeys identify an item's unit count.
var quantityKeys = []string{
	"cnt", "quantity", "qty", "num", "count",
	"jumlah", "jumlah_beli", "jumlah beli",
	"amount", "amount_bought", "amount bought",
}

// priceKeys identify an item's per-unit price.
var priceKeys = []string{
	"price", "unit_price", "uprice", "price_each",
	"unit_price_each", "unit_price_per_item",
	"item_price", "item price",
	"cost", "cost_each", "cost_per_item",
	"harga", "harga_satuan", "harga satuan",
}

// lineTotalKeys identify an item's extended (line) total.
var lineTotalKeys = []string{
	"sub_total", "total", "subtotal",
	"item_total", "line_total", "net subtotal",
	"item total", "line total",
	"net_total", "net total",
	"total_price", "total price",
	"amount", "amount_due", "due_amount", "due amount",
}

// subtotalValueKeys identify the amount inside a subtotal block.
var subtotalValueKeys = []string{"sub_total_price", "subtotal"}

// totalValueKeys identify the amount inside a total block.
var totalValueKeys = []string{"total_price", "total", "amount", "grand_total"}

// resolve returns the value of the first candidate key present in
// record, or def when none match. Key presence alone decides: a present
// key with a nil value still wins. Absence is expected, not an error.
func resolve(record map[string]any, keys []string, def any) any {
	for _, k := range keys {
		if v, ok := record[k]; ok {
			return v
		}
	}
	return def
}
