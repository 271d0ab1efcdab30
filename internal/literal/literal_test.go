package literal

import "fmt"

func ExamplePos() {
	fmt.Println(Pos(0), Neg(0), Pos(3), Neg(3))
	// Output:
	// 0 -0 3 -3
}

func ExampleLit_Var() {
	fmt.Println(Pos(5).Var(), Neg(5).Var())
	// Output:
	// 5 5
}

func ExampleLit_Negate() {
	l := Pos(2)
	fmt.Println(l.Negate(), l.Negate().Negate())
	// Output:
	// -2 2
}

func ExampleLit_IsPositive() {
	fmt.Println(Pos(0).IsPositive(), Neg(0).IsPositive())
	// Output:
	// true false
}

func ExampleTBool_Negate() {
	fmt.Println(True.Negate(), False.Negate(), Unknown.Negate())
	// Output:
	// false true unknown
}

func ExampleLift() {
	fmt.Println(Lift(true), Lift(false))
	// Output:
	// true false
}
