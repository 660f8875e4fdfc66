package conversion

// 通用單位換算（每單位克數），鍵為基準單位
var unitGrams = map[string]float64{
	"cup":   240,
	"tbsp":  15,
	"tsp":   5,
	"oz":    28.35,
	"lb":    453.6,
	"kg":    1000,
	"g":     1,
	"fl oz": 30,
}

// 單位別名對應到基準單位
var unitAliases = map[string]string{
	"cup": "cup", "c": "cup",
	"tablespoon": "tbsp", "tbsp": "tbsp", "tbs": "tbsp", "tb": "tbsp",
	"teaspoon": "tsp", "tsp": "tsp", "ts": "tsp", "t": "tsp",
	"ounce": "oz", "oz": "oz",
	"pound": "lb", "lb": "lb",
	"kilogram": "kg", "kg": "kg",
	"gram": "g", "g": "g",
	"fluid ounce": "fl oz", "fl oz": "fl oz",
}

type density struct {
	name  string
	grams map[string]float64
}

var (
	cupOnly = func(g float64) map[string]float64 { return map[string]float64{"cup": g} }

	butterGrams = map[string]float64{"cup": 227, "tbsp": 14, "tsp": 5}
	waterGrams  = map[string]float64{"cup": 240, "tbsp": 15, "tsp": 5}
	milkGrams   = map[string]float64{"cup": 240, "tbsp": 15}
)

// 食材專屬換算；比對時依名稱特異性挑選，順序僅影響同長度的鍵
var densities = []density{
	{"flour", cupOnly(125)},
	{"all-purpose flour", cupOnly(125)},
	{"all purpose flour", cupOnly(125)},
	{"bread flour", cupOnly(127)},
	{"cake flour", cupOnly(114)},
	{"whole wheat flour", cupOnly(120)},

	{"sugar", cupOnly(200)},
	{"granulated sugar", cupOnly(200)},
	{"white granulated sugar", cupOnly(200)},
	{"white sugar", cupOnly(200)},
	{"brown sugar", cupOnly(220)},
	{"light brown sugar", cupOnly(213)},
	{"dark brown sugar", cupOnly(220)},
	{"powdered sugar", cupOnly(120)},
	{"confectioners sugar", cupOnly(120)},

	{"butter", butterGrams},
	{"unsalted butter", map[string]float64{"cup": 227, "tbsp": 14}},

	{"water", waterGrams},
	{"milk", milkGrams},
	{"2% milk", cupOnly(240)},

	{"oil", map[string]float64{"cup": 218, "tbsp": 14}},
	{"olive oil", map[string]float64{"cup": 216, "tbsp": 14}},
	{"vegetable oil", map[string]float64{"cup": 218, "tbsp": 14}},

	{"oats", cupOnly(80)},
	{"rolled oats", cupOnly(80)},

	{"chocolate chips", cupOnly(175)},
	{"chocolate", cupOnly(175)},

	{"cream cheese", map[string]float64{"oz": 28.35, "cup": 227}},
}
