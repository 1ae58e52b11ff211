package domain

var Tables = []interface{}{
	&ProductCategory{},
	&Product{},
	&Image{},
}
