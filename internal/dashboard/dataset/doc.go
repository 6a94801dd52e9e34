// Package dataset turns CSV bytes into an entity.Table and back.
//
// Column kinds are decided by one scan per column after the whole file is
// read: a column is numeric when it has at least one present value and every
// present value parses as a float. Missing markers follow the usual
// spreadsheet/dataframe conventions ("", "NA", "NaN", "null", ...).
package dataset
