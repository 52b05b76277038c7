package careplan

// Static plan content. Meals follow a Mediterranean, anti-inflammatory
// pattern; restrictions and the stricter supplement list apply only at
// elevated risk.

var baseBreakfast = []Meal{
	{
		Name:      "Oatmeal with berries and walnuts",
		Benefits:  "Soluble fiber lowers LDL cholesterol",
		Nutrients: "Omega-3, antioxidants, fiber",
	},
	{
		Name:      "Greek yogurt with flaxseed",
		Benefits:  "Probiotics and healthy fats",
		Nutrients: "Protein, omega-3, calcium",
	},
	{
		Name:      "Vegetable omelet with olive oil",
		Benefits:  "Monounsaturated fats support HDL",
		Nutrients: "Protein, vitamins, healthy fats",
	},
}

var baseLunch = []Meal{
	{
		Name:      "Grilled salmon with quinoa and vegetables",
		Benefits:  "Omega-3 fatty acids reduce inflammation",
		Nutrients: "EPA/DHA, complete protein, fiber",
	},
	{
		Name:      "Lentil soup with whole grain bread",
		Benefits:  "Plant protein and cholesterol-lowering fiber",
		Nutrients: "Protein, iron, B-vitamins",
	},
	{
		Name:      "Chicken breast with brown rice and broccoli",
		Benefits:  "Lean protein with anti-inflammatory vegetables",
		Nutrients: "Protein, fiber, vitamins C and K",
	},
}

var baseDinner = []Meal{
	{
		Name:      "Mediterranean grilled fish with roasted vegetables",
		Benefits:  "Heart-protective omega-3s",
		Nutrients: "Lean protein, antioxidants",
	},
	{
		Name:      "Turkey chili with beans",
		Benefits:  "High fiber reduces cholesterol absorption",
		Nutrients: "Protein, fiber, minerals",
	},
	{
		Name:      "Vegetable stir-fry with tofu",
		Benefits:  "Plant sterols lower LDL",
		Nutrients: "Plant protein, phytonutrients",
	},
}

var baseSnacks = []string{
	"Handful of almonds",
	"Apple with natural peanut butter",
	"Carrot sticks with hummus",
	"Low-fat cheese with whole grain crackers",
}

var elevatedRestrictions = []string{
	"Avoid saturated fats (butter, red meat, full-fat dairy)",
	"Eliminate trans fats (processed foods, fried foods)",
	"Limit dietary cholesterol to under 200mg/day",
	"Reduce sodium to under 1500mg/day",
	"Minimize added sugars",
}

var elevatedSupplements = []string{
	"Omega-3 (EPA/DHA): 1-2g daily - reduces triglycerides",
	"Plant sterols: 2g daily - blocks cholesterol absorption",
	"Vitamin D: if deficient - supports cardiovascular health",
	"Consult physician before starting supplements",
}

var routineSupplements = []string{
	"Omega-3: consider if not eating fatty fish twice a week",
	"Vitamin D: if deficiency confirmed",
	"Multivitamin: optional",
}

var dailyFacts = []string{
	"Atherosclerosis begins when LDL cholesterol penetrates artery walls, triggering inflammation.",
	"HDL cholesterol removes cholesterol from arteries and carries it back to the liver.",
	"Plaque buildup can reduce blood flow substantially before symptoms appear.",
	"Every 10% reduction in LDL lowers heart attack risk by about 20%.",
	"Exercise increases HDL and improves endothelial function within weeks.",
	"Omega-3 fatty acids reduce the inflammation that drives plaque formation.",
	"Soluble fiber binds cholesterol in the digestive tract, preventing absorption.",
}

var warningSigns = []string{
	"Chest discomfort or pressure",
	"Shortness of breath with exertion",
	"Jaw, neck, or arm pain",
	"Severe fatigue",
	"Dizziness or lightheadedness",
}

const emergencyNote = "Call emergency services immediately if experiencing chest pain or breathing difficulty."

const hydrationNote = "8-10 glasses of water daily"

const mealFocus = "Anti-inflammatory, cholesterol-lowering foods"

const exerciseNote = "Regular exercise slows plaque buildup and improves arterial function"
