package utils

// Max is kept as a plain helper rather than reached for from a
// generics-heavy stdlib package, since it's used in two tiny spots:
// raising roundsForReport when the phase driver advances a phase and when
// a node enters victory.

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
