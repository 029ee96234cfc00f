package fields

// Candidate keyword lists, lower-cased, most-specific first. English and
// Brazilian-Portuguese variants live in the same list because provider
// exports mix both ("Descrição" next to "UsageQuantity").
var (
	Description = []string{
		"product/productname", "productname", "line item description",
		"description", "descrição", "descricao", "item", "detalhe", "serviço", "servico",
	}

	ProductCode = []string{
		"product/productcode", "productcode", "servicecode", "sku", "part number",
		"código do produto", "codigo do produto", "meter id", "meterid",
	}

	Quantity = []string{
		"usageamount", "usage quantity", "quantidade de uso", "consumed quantity",
		"quantity", "quantidade", "usage", "qty",
	}

	Unit = []string{
		"pricingunit", "unit of measure", "unitofmeasure", "unidade de medida",
		"unit", "unidade",
	}

	UnitPrice = []string{
		"unblendedrate", "unit price", "unitprice", "preço unitário",
		"preco unitario", "rate", "effectiveprice", "preço", "preco",
	}

	Cost = []string{
		"unblendedcost", "lineitemtotal", "cost in usd", "valor em usd",
		"amount in usd", "pretaxcost", "costinbillingcurrency", "encargos",
		"charges", "cost", "custo", "valor", "amount",
	}

	Tax = []string{
		"taxamount", "tax amount", "valor do imposto", "imposto", "tax", "tributo",
	}

	Currency = []string{
		"currencycode", "billingcurrency", "currency", "moeda",
	}

	Region = []string{
		"product/region", "availabilityzone", "region", "região", "regiao", "location", "local",
	}

	UsageStart = []string{
		"usagestartdate", "usage start", "início do uso", "inicio do uso",
		"startdate", "start", "date", "data",
	}

	UsageEnd = []string{
		"usageenddate", "usage end", "fim do uso", "enddate", "end",
	}

	InvoiceID = []string{
		"invoiceid", "invoice id", "número da fatura", "numero da fatura", "invoice", "fatura",
	}

	AccountID = []string{
		"usageaccountid", "linkedaccountid", "account id", "accountid",
		"subscriptionid", "billingaccountid", "id da conta", "conta", "account",
	}

	ResourceID = []string{
		"resourceid", "resource id", "instanceid", "resourcename", "recurso", "resource",
	}

	CategoryHint = []string{
		"productfamily", "product family", "servicecategory", "service category",
		"metercategory", "categoria", "category", "servicename", "service",
	}

	UsageType = []string{
		"lineitem/usagetype", "usagetype", "usage type", "tipo de uso",
		"metername", "meter name",
	}
)
