package model

// AllCategories is the filter selector that matches every task.
// Category names are never empty, so it cannot collide with a real one.
const AllCategories = ""
