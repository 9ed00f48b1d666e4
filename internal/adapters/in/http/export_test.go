package http

func StatusOf(err error) int {
	return classify(err).Code
}
