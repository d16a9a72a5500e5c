package expression

// implicitMultiplication lists the adjacent kinds that read as a product.
var implicitMultiplication = map[[2]Kind]bool{
	{KindNumber, KindLeftParen}:     true,
	{KindRightParen, KindNumber}:    true,
	{KindRightParen, KindLeftParen}: true,
	{KindNumber, KindDice}:          true,
	{KindDice, KindNumber}:          true,
	{KindDice, KindLeftParen}:       true,
	{KindRightParen, KindDice}:      true,
	{KindNumber, KindAdvDis}:        true,
	{KindAdvDis, KindNumber}:        true,
}

// Normalize returns a copy of tokens with a "*" operator inserted between
// each pair of adjacent tokens that implies multiplication, such as "2(" or
// ")(". Applying it twice yields the same sequence.
func Normalize(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens)+len(tokens)/2)
	for i, token := range tokens {
		if i > 0 && implicitMultiplication[[2]Kind{tokens[i-1].Kind, token.Kind}] {
			out = append(out, OperatorToken('*'))
		}
		out = append(out, token)
	}
	return out
}
