// Package ml provides binary-classifier bookkeeping.
package ml

// ConfusionMatrix holds the four cells of a binary confusion matrix,
// as counts or as fractions.
type ConfusionMatrix struct {
	TP float64 // true positives
	TN float64 // true negatives
	FP float64 // false positives
	FN float64 // false negatives
}

// Stats holds the quantities derived from a confusion matrix. Rates
// are fractions of the relevant denominator; an empty denominator
// yields NaN.
type Stats struct {
	P float64 // actual positives
	N float64 // actual negatives

	TPR float64 // true-positive rate, sensitivity, recall
	TNR float64 // true-negative rate, specificity
	FPR float64 // false-positive rate, fall-out
	FNR float64 // false-negative rate, miss rate

	PPV float64 // positive predictive value, precision
	NPV float64 // negative predictive value
	FDR float64 // false-discovery rate
	FOR float64 // false-omission rate

	Acc float64 // accuracy
	F1  float64 // F1 score
}

// Stats derives the classification statistics from the matrix.
func (c ConfusionMatrix) Stats() Stats {
	return Stats{
		P: c.FN + c.TP,
		N: c.FP + c.TN,

		TPR: c.TP / (c.TP + c.FN),
		TNR: c.TN / (c.TN + c.FP),
		FPR: c.FP / (c.FP + c.TN),
		FNR: c.FN / (c.FN + c.TP),

		PPV: c.TP / (c.TP + c.FP),
		NPV: c.TN / (c.TN + c.FN),
		FDR: c.FP / (c.TP + c.FP),
		FOR: c.FN / (c.TN + c.FN),

		Acc: (c.TP + c.TN) / (c.TP + c.TN + c.FP + c.FN),
		F1:  2 * c.TP / (2*c.TP + c.FP + c.FN),
	}
}
